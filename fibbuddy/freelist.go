package fibbuddy

// The free list is a doubly linked list of every free block's header,
// threaded through header.next/header.prev (offsets, -1 for nil), kept in
// ascending order of base address. The list head lives on the Allocator
// itself rather than as a sentinel node, matching the teacher's
// BuddyAllocator.blocks slices-per-order approach generalized to a single
// address-ordered chain (the spec's free list is one list, not one per
// Fibonacci index, since buddy lookup needs address locality, not
// size-bucket locality).

// flInsert places the block at offset into the free list at the position
// that keeps address order. O(L) in the free-list length.
func (a *Allocator) flInsert(offset uint64) {
	h := a.headerAt(offset)

	if a.freeHead == -1 {
		h.prev, h.next = -1, -1
		a.freeHead = int64(offset)
		return
	}

	var prevOffset int64 = -1
	cur := a.freeHead
	for cur != -1 {
		curHeader := a.headerAt(uint64(cur))
		if uint64(cur) > offset {
			break
		}
		prevOffset = cur
		cur = curHeader.next
	}

	h.prev = prevOffset
	h.next = cur
	if prevOffset == -1 {
		a.freeHead = int64(offset)
	} else {
		a.headerAt(uint64(prevOffset)).next = int64(offset)
	}
	if cur != -1 {
		a.headerAt(uint64(cur)).prev = int64(offset)
	}
}

// flRemove detaches the block at offset. O(1): it only touches the block,
// its predecessor, its successor, and (possibly) the list head.
func (a *Allocator) flRemove(offset uint64) {
	h := a.headerAt(offset)

	if h.prev == -1 {
		a.freeHead = h.next
	} else {
		a.headerAt(uint64(h.prev)).next = h.next
	}
	if h.next != -1 {
		a.headerAt(uint64(h.next)).prev = h.prev
	}
	h.next, h.prev = -1, -1
}

// flIterate walks the free list in ascending address order, stopping early
// if fn returns false. It does not mutate state itself and is safe to call
// from DumpFreeList.
func (a *Allocator) flIterate(fn func(offset uint64, h *header) bool) {
	cur := a.freeHead
	for cur != -1 {
		h := a.headerAt(uint64(cur))
		next := h.next
		if !fn(uint64(cur), h) {
			return
		}
		cur = next
	}
}
