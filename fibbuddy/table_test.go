package fibbuddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableSequence(t *testing.T) {
	table, err := BuildTable(144)
	require.NoError(t, err)

	want := []uint64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}
	require.Equal(t, len(want), table.Count())
	for i, v := range want {
		assert.Equal(t, v, table.Value(i), "F[%d]", i)
	}
	assert.Equal(t, uint64(144), table.Cap())
}

func TestBuildTableStrictlyIncreasing(t *testing.T) {
	table, err := BuildTable(10000)
	require.NoError(t, err)

	for i := 1; i < table.Count(); i++ {
		assert.Greater(t, table.Value(i), table.Value(i-1))
	}
}

func TestBuildTableNeverExceedsCapacity(t *testing.T) {
	const capacity = 1000
	table, err := BuildTable(capacity)
	require.NoError(t, err)
	assert.LessOrEqual(t, table.Cap(), uint64(capacity))
}

func TestBuildTableRejectsZeroCapacity(t *testing.T) {
	_, err := BuildTable(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)
}

func TestBuildTableSingleEntryWhenCapacityOne(t *testing.T) {
	table, err := BuildTable(1)
	require.NoError(t, err)
	require.Equal(t, 1, table.Count())
	assert.Equal(t, uint64(1), table.Value(0))
}

func TestTableIndexAtLeast(t *testing.T) {
	table, err := BuildTable(144)
	require.NoError(t, err)

	cases := []struct {
		n        uint64
		wantIdx  int
		wantFlag bool
	}{
		{1, 0, true},
		{2, 1, true},
		{4, 3, true}, // smallest F[i] >= 4 is F[3] = 5
		{34, 7, true},
		{144, 10, true},
		{145, 0, false},
	}

	for _, c := range cases {
		idx, ok := table.IndexAtLeast(c.n)
		assert.Equal(t, c.wantFlag, ok, "n=%d", c.n)
		if c.wantFlag {
			assert.Equal(t, c.wantIdx, idx, "n=%d", c.n)
			assert.GreaterOrEqual(t, table.Value(idx), c.n)
			if idx > 0 {
				assert.Less(t, table.Value(idx-1), c.n)
			}
		}
	}
}
