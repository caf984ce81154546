package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_IncrementDecrement(t *testing.T) {
	t.Parallel()

	c := Cart{}
	assert.Equal(t, 1, c.Increment(5))
	assert.Equal(t, 2, c.Increment(5))
	assert.Equal(t, 2, c.Quantity(5))

	q, ok := c.Decrement(5)
	require.True(t, ok)
	assert.Equal(t, 1, q)

	q, ok = c.Decrement(5)
	require.True(t, ok)
	assert.Equal(t, 0, q)
	assert.True(t, c.Empty())

	_, ok = c.Decrement(5)
	assert.False(t, ok)
}

func TestCart_LinesOrderedByID(t *testing.T) {
	t.Parallel()

	c := Cart{"10": 1, "2": 3, "bogus": 4, "7": 0, "1": 2}
	lines := c.Lines()

	require.Len(t, lines, 3)
	assert.Equal(t, []Line{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
		{ProductID: 10, Quantity: 1},
	}, lines)
	assert.Equal(t, 6, c.TotalItems())
}

func TestCart_RemoveAndClone(t *testing.T) {
	t.Parallel()

	c := Cart{"1": 2, "2": 1}
	cp := c.Clone()
	c.Remove(1)
	c.Remove(99)

	assert.Equal(t, Cart{"2": 1}, c)
	assert.Equal(t, Cart{"1": 2, "2": 1}, cp)
}
