package fibbuddy

import "errors"

// Error definitions for the two user-visible error kinds the allocator
// raises, plus the initialization precondition.
var (
	// ErrOutOfMemory is returned by Allocate when no free block of
	// sufficient size exists, even after all possible splits.
	ErrOutOfMemory = errors.New("fibbuddy: out of memory")
	// ErrInvalidPointer is returned by Release when the argument is not
	// a live user pointer: outside the region, misaligned to a header,
	// or already free.
	ErrInvalidPointer = errors.New("fibbuddy: invalid pointer")
	// ErrCapacityTooSmall is returned by New when the backing region
	// cannot hold even the smallest two-entry Fibonacci heap.
	ErrCapacityTooSmall = errors.New("fibbuddy: backing region too small")
)
