package rolling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer_EvictsOldestOnOverflow(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}
	require.Equal(t, 3, b.Len())
	require.Equal(t, []int{3, 4, 5}, b.All())
}

func TestBuffer_LastReturnsMostRecent(t *testing.T) {
	b := New[int](10)
	for i := 1; i <= 6; i++ {
		b.Push(i)
	}
	require.Equal(t, []int{5, 6}, b.Last(2))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, b.Last(100), "Last clamps to stored count")
}

func TestBuffer_EmptyIsEmpty(t *testing.T) {
	b := New[string](4)
	require.Zero(t, b.Len())
	require.Empty(t, b.All())
	require.Empty(t, b.Last(3))
}

func TestBuffer_WrapAroundOrder(t *testing.T) {
	b := New[int](2)
	b.Push(1)
	b.Push(2)
	b.Push(3) // evicts 1
	b.Push(4) // evicts 2
	require.Equal(t, []int{3, 4}, b.All())
}

func TestBuffer_MinimumCapacityIsOne(t *testing.T) {
	b := New[int](0)
	b.Push(7)
	b.Push(8)
	require.Equal(t, []int{8}, b.All())
}
