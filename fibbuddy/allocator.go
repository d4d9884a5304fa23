// Package fibbuddy implements a user-space heap allocator on a Fibonacci
// buddy system: admissible block sizes are Fibonacci numbers rather than
// powers of two, and a freed block coalesces with its Fibonacci buddy —
// identified by index and address together, not by a single XOR as in the
// classical binary buddy scheme.
package fibbuddy

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Allocator owns a single contiguous backing region for its entire
// lifetime and drives allocation, release, splitting, and coalescing
// against it. It is not safe for concurrent use: callers serialize their
// own access, per the spec's single-threaded, synchronous model.
type Allocator struct {
	region   []byte
	table    Table
	unit     uint64
	freeHead int64
	log      zerolog.Logger
}

// Option configures an Allocator at construction time.
type Option func(*Allocator)

// WithLogger overrides the allocator's logger. Without this option the
// allocator logs through defaultLogger, a console logger at info level.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Allocator) { a.log = l }
}

// New initializes an allocator over region: it builds the Fibonacci table
// up to the region's capacity (in header-sized units — see unit below),
// writes a single free header spanning the whole usable heap, and makes it
// the sole free-list member.
//
// Block sizes are Fibonacci numbers of header-sized units, not raw bytes:
// the smallest admissible block (F[0] units) must still be able to hold a
// header, so capacity is computed in units of headerSize rather than
// bytes. This also means the heap capacity New reports can be smaller than
// len(region) — the spec's own observation that "heap capacity is F[K-1],
// not the raw backing size" generalizes one level further once sizes are
// unit-scaled.
func New(region []byte, opts ...Option) (*Allocator, error) {
	if uint64(len(region)) < 2*headerSize {
		return nil, fmt.Errorf("fibbuddy: new: region of %d bytes cannot hold F[1] units of %d bytes: %w",
			len(region), headerSize, ErrCapacityTooSmall)
	}

	capacityUnits := uint64(len(region)) / headerSize
	table, err := BuildTable(capacityUnits)
	if err != nil {
		return nil, err
	}

	a := &Allocator{
		region:   region,
		table:    table,
		unit:     headerSize,
		freeHead: -1,
		log:      defaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	rootSize := table.Cap() * a.unit
	a.writeFreeHeader(0, rootSize, table.Count()-1)
	a.flInsert(0)

	a.log.Info().
		Int("bytes", len(region)).
		Uint64("heap_capacity", rootSize).
		Int("fib_entries", table.Count()).
		Msg("allocator initialized")

	return a, nil
}

// capacityBytes is the heap capacity actually in play: F[K-1] units, not
// len(region).
func (a *Allocator) capacityBytes() uint64 {
	return a.table.Cap() * a.unit
}

func ceilDiv(n, d uint64) uint64 {
	return (n + d - 1) / d
}

// Allocate rounds n+headerSize up to the smallest admissible Fibonacci
// size, finds a best-fit free block (exact index match preferred, else
// the first — lowest address — larger block), splits it down to the
// target index if needed, and returns the offset of the usable payload.
//
// Allocate either returns a valid offset having mutated the free list to
// reflect the allocation and any splits, or returns ErrOutOfMemory having
// left the free list untouched: the target index is resolved and the
// candidate block verified before any header is written.
func (a *Allocator) Allocate(n uint64) (uint64, error) {
	need := n + a.unit
	needUnits := ceilDiv(need, a.unit)

	target, ok := a.table.IndexAtLeast(needUnits)
	if !ok {
		a.log.Debug().Uint64("bytes", n).Msg("allocate: out of memory (no admissible size)")
		return 0, fmt.Errorf("fibbuddy: allocate %d bytes: %w", n, ErrOutOfMemory)
	}

	// Index 0 is a leaf in the Fibonacci split tree: an index-1 block splits
	// into F[0]+F[-1], and there is no F[-1], so target 0 can only ever be
	// satisfied by a pre-existing exact index-0 free block. Skip the
	// larger-block fallback in that case rather than handing split() a
	// target it cannot reach.
	var exactOffset, largerOffset int64 = -1, -1
	a.flIterate(func(offset uint64, h *header) bool {
		idx := int(h.fibIndex)
		if idx == target {
			exactOffset = int64(offset)
			return false
		}
		if target > 0 && idx > target && largerOffset == -1 {
			largerOffset = int64(offset)
		}
		return true
	})

	chosen := exactOffset
	if chosen == -1 {
		chosen = largerOffset
	}
	if chosen == -1 {
		a.log.Debug().Uint64("bytes", n).Int("target_index", target).Msg("allocate: out of memory (no block fits)")
		return 0, fmt.Errorf("fibbuddy: allocate %d bytes: %w", n, ErrOutOfMemory)
	}

	blockOffset := uint64(chosen)
	h := a.headerAt(blockOffset)
	if int(h.fibIndex) < target {
		consistencyViolation("allocate selected block at offset %d with index %d below target %d", blockOffset, h.fibIndex, target)
	}

	if int(h.fibIndex) > target {
		blockOffset = a.split(blockOffset, target)
	}

	a.flRemove(blockOffset)
	h = a.headerAt(blockOffset)
	h.isFree = 0
	h.reqSize = n

	a.log.Debug().
		Uint64("bytes", n).
		Uint64("offset", blockOffset).
		Int("fib_index", target).
		Msg("allocate")

	return blockOffset + a.unit, nil
}

// split removes the block at offset from the free list and repeatedly
// splits it — left child F[i-1], right child F[i-2] — until its index
// reaches target. Every right child produced is inserted into the free
// list immediately; the final, fully shrunk left child is reinserted too,
// so split always returns a list-resident block of index target, ready
// for the caller to detach.
func (a *Allocator) split(offset uint64, target int) uint64 {
	a.flRemove(offset)
	h := a.headerAt(offset)
	i := int(h.fibIndex)

	for i > target {
		if i-2 < 0 {
			consistencyViolation("split of block at offset %d cannot reach target index %d: index 1 is a leaf", offset, target)
		}
		leftSize := a.table.Value(i-1) * a.unit
		rightIdx := i - 2
		rightOffset := offset + leftSize
		rightSize := a.table.Value(rightIdx) * a.unit

		a.writeFreeHeader(rightOffset, rightSize, rightIdx)
		a.flInsert(rightOffset)

		a.writeFreeHeader(offset, leftSize, i-1)
		i--

		a.log.Debug().Uint64("offset", offset).Int("index", i).Uint64("sibling_offset", rightOffset).Msg("split")
	}

	a.flInsert(offset)
	return offset
}

// Release recovers the header preceding ptr, rejects the call if ptr isn't
// a live user pointer, marks the block free, coalesces with its Fibonacci
// buddy as many times as possible, and reinserts the resulting block into
// the free list.
func (a *Allocator) Release(ptr uint64) error {
	if ptr < a.unit {
		return fmt.Errorf("fibbuddy: release offset %d: %w", ptr, ErrInvalidPointer)
	}
	offset := ptr - a.unit
	if offset >= a.capacityBytes() {
		return fmt.Errorf("fibbuddy: release offset %d: outside region: %w", ptr, ErrInvalidPointer)
	}

	h := a.headerAt(offset)
	idx := int(h.fibIndex)
	// A pointer that doesn't land on a block boundary reads whatever bytes
	// happen to sit there as a header; fib_index and size are the only
	// cross-check available without tracking live offsets separately, so
	// reject anything where they don't agree with the table before trusting
	// isFree or touching the free list.
	if idx < 0 || idx >= a.table.Count() || h.size != a.table.Value(idx)*a.unit {
		return fmt.Errorf("fibbuddy: release offset %d: not a block boundary: %w", ptr, ErrInvalidPointer)
	}
	if h.isFreeBool() {
		return fmt.Errorf("fibbuddy: release offset %d: already free: %w", ptr, ErrInvalidPointer)
	}

	h.isFree = 1
	h.reqSize = 0

	mergedOffset, mergedIdx := a.coalesce(offset, idx)
	a.flInsert(mergedOffset)

	a.log.Debug().Uint64("ptr", ptr).Uint64("offset", mergedOffset).Int("fib_index", mergedIdx).Msg("release")
	return nil
}

// coalesce repeatedly attempts to merge the just-freed block at offset
// (index idx) with its Fibonacci buddy, trying both orientations at each
// step (the block can be either the left or the right child of its
// parent — see the spec's buddy rule). It terminates when no buddy
// matches at either orientation or the block has grown to the whole heap.
func (a *Allocator) coalesce(offset uint64, idx int) (uint64, int) {
	for idx < a.table.Count()-1 {
		size := a.table.Value(idx) * a.unit
		merged := false

		rightOffset := offset + size
		if rightOffset < a.capacityBytes() {
			rh := a.headerAt(rightOffset)
			if rh.isFreeBool() && int(rh.fibIndex) == idx-1 {
				a.flRemove(rightOffset)
				idx++
				merged = true
			}
		}

		if !merged && idx+1 < a.table.Count() {
			leftSize := a.table.Value(idx+1) * a.unit
			if offset >= leftSize {
				leftOffset := offset - leftSize
				lh := a.headerAt(leftOffset)
				if lh.isFreeBool() && int(lh.fibIndex) == idx+1 {
					a.flRemove(leftOffset)
					offset = leftOffset
					idx += 2
					merged = true
				}
			}
		}

		if !merged {
			break
		}
	}

	a.writeFreeHeader(offset, a.table.Value(idx)*a.unit, idx)
	return offset, idx
}

// Stats summarizes the current state of the heap.
type Stats struct {
	Capacity         uint64
	Used             uint64
	Free             uint64
	LargestFreeIndex int
}

// Stats reports capacity/used/free byte counts and the largest free
// block's Fibonacci index (-1 if the heap is fully allocated).
func (a *Allocator) Stats() Stats {
	capacity := a.capacityBytes()
	var free uint64
	largest := -1
	a.flIterate(func(offset uint64, h *header) bool {
		free += h.size
		if int(h.fibIndex) > largest {
			largest = int(h.fibIndex)
		}
		return true
	})

	return Stats{
		Capacity:         capacity,
		Used:             capacity - free,
		Free:             free,
		LargestFreeIndex: largest,
	}
}

// DumpFreeList renders every free block in ascending address order as one
// line per block. It does not mutate allocator state.
func (a *Allocator) DumpFreeList() string {
	out := ""
	a.flIterate(func(offset uint64, h *header) bool {
		out += fmt.Sprintf("base=%d size=%d index=%d\n", offset, h.size, h.fibIndex)
		return true
	})
	return out
}

// Shutdown drops the allocator's reference to its backing region. The
// region need not survive process exit, and Shutdown performs no I/O —
// reclaiming the memory, if it was obtained from the OS rather than the Go
// heap, is the caller's responsibility (see cmd/fiballoc's region
// acquisition).
func (a *Allocator) Shutdown() {
	a.region = nil
}
