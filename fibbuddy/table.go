package fibbuddy

import "fmt"

// Table is the precomputed ascending sequence of Fibonacci numbers used to
// size every block in a buddy heap. Values are expressed in allocator units
// (see Allocator.unit), not raw bytes — Table itself is pure index math and
// knows nothing about the byte layout of a block.
type Table struct {
	values []uint64
}

// BuildTable populates a Table with every Fibonacci number starting from
// {1, 2} that does not exceed capacity. It fails only if capacity < 1.
func BuildTable(capacity uint64) (Table, error) {
	if capacity < 1 {
		return Table{}, fmt.Errorf("fibbuddy: build table: capacity %d: %w", capacity, ErrCapacityTooSmall)
	}

	values := make([]uint64, 0, 8)
	values = append(values, 1)
	if capacity >= 2 {
		values = append(values, 2)
	}

	for len(values) >= 2 {
		next := values[len(values)-1] + values[len(values)-2]
		if next > capacity {
			break
		}
		values = append(values, next)
	}

	return Table{values: values}, nil
}

// Count returns the number of entries in the table (K in the spec's
// notation).
func (t Table) Count() int {
	return len(t.values)
}

// Value returns F[i].
func (t Table) Value(i int) uint64 {
	return t.values[i]
}

// Cap returns F[K-1], the heap capacity the allocator actually manages —
// distinct from the raw capacity passed to BuildTable.
func (t Table) Cap() uint64 {
	return t.values[len(t.values)-1]
}

// IndexAtLeast returns the smallest i with F[i] >= n, or (0, false) if
// n exceeds the table's capacity.
func (t Table) IndexAtLeast(n uint64) (int, bool) {
	if n > t.values[len(t.values)-1] {
		return 0, false
	}

	lo, hi := 0, len(t.values)-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if t.values[mid] >= n {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, true
}
