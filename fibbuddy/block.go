package fibbuddy

import "unsafe"

// header is the per-block metadata that precedes every block's payload,
// free or allocated. It lives directly inside the backing region: headerAt
// takes a byte offset and casts a view onto it, rather than dereferencing a
// pointer obtained from the Go heap. next/prev are themselves offsets (-1
// for "none") for the same reason — the backing region is the only address
// space blocks are allowed to reference, matching the design note that
// provenance-strict implementations should address blocks by byte offset
// rather than raw pointer arithmetic.
type header struct {
	size     uint64
	reqSize  uint64
	fibIndex uint64
	isFree   uint64
	next     int64
	prev     int64
}

const headerSize = uint64(unsafe.Sizeof(header{}))

// headerAt views the header at the given byte offset into the region.
func (a *Allocator) headerAt(offset uint64) *header {
	return (*header)(unsafe.Pointer(&a.region[offset]))
}

// writeFreeHeader (re)initializes the header at offset as a free block of
// the given size and Fibonacci index. It is the only place a block's
// size/fibIndex pair is set for a free block — splitting and coalescing
// both route through it.
func (a *Allocator) writeFreeHeader(offset, size uint64, fibIndex int) {
	h := a.headerAt(offset)
	h.size = size
	h.reqSize = 0
	h.fibIndex = uint64(fibIndex)
	h.isFree = 1
	h.next = -1
	h.prev = -1
}

func (h *header) isFreeBool() bool {
	return h.isFree != 0
}
