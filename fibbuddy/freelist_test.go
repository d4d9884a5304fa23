package fibbuddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(t *testing.T, units uint64) *Allocator {
	t.Helper()
	region := make([]byte, units*headerSize)
	a, err := New(region)
	require.NoError(t, err)
	return a
}

func freeListOffsets(a *Allocator) []uint64 {
	var offsets []uint64
	a.flIterate(func(offset uint64, h *header) bool {
		offsets = append(offsets, offset)
		return true
	})
	return offsets
}

func TestFreeListInsertKeepsAscendingOrder(t *testing.T) {
	a := newTestAllocator(t, 144)

	// Start from a single free block covering the whole heap and carve it
	// into three independent free entries to exercise insert directly,
	// out of address order.
	a.flRemove(0)
	a.writeFreeHeader(0, 10*headerSize, 0)
	a.writeFreeHeader(50*headerSize, 10*headerSize, 0)
	a.writeFreeHeader(20*headerSize, 10*headerSize, 0)

	a.flInsert(50 * headerSize)
	a.flInsert(0)
	a.flInsert(20 * headerSize)

	offsets := freeListOffsets(a)
	require.Len(t, offsets, 3)
	assert.True(t, offsets[0] < offsets[1] && offsets[1] < offsets[2], "expected ascending order, got %v", offsets)
	assert.Equal(t, []uint64{0, 20 * headerSize, 50 * headerSize}, offsets)
}

func TestFreeListRemoveFixesNeighborLinks(t *testing.T) {
	a := newTestAllocator(t, 144)

	a.flRemove(0)
	a.writeFreeHeader(0, headerSize, 0)
	a.writeFreeHeader(10*headerSize, headerSize, 0)
	a.writeFreeHeader(20*headerSize, headerSize, 0)
	a.flInsert(0)
	a.flInsert(10 * headerSize)
	a.flInsert(20 * headerSize)

	a.flRemove(10 * headerSize)

	offsets := freeListOffsets(a)
	assert.Equal(t, []uint64{0, 20 * headerSize}, offsets)
}

func TestFreeListRemoveHead(t *testing.T) {
	a := newTestAllocator(t, 144)
	// Single root block is already the head.
	head := uint64(a.freeHead)
	a.flRemove(head)
	assert.Equal(t, int64(-1), a.freeHead)
}
