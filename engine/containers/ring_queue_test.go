package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFOOrder(t *testing.T) {
	rq := NewRingQueue[int](4)

	for i := 1; i <= 3; i++ {
		require.NoError(t, rq.Enqueue(i))
	}
	assert.Equal(t, 3, rq.Len())

	for i := 1; i <= 3; i++ {
		value, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}
	assert.True(t, rq.IsEmpty())
}

func TestRingQueueFullAndEmpty(t *testing.T) {
	rq := NewRingQueue[string](2)

	_, err := rq.Dequeue()
	assert.Error(t, err)

	require.NoError(t, rq.Enqueue("a"))
	require.NoError(t, rq.Enqueue("b"))
	assert.True(t, rq.IsFull())
	assert.Error(t, rq.Enqueue("c"))
}

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[int](3)

	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))
	_, err := rq.Dequeue()
	require.NoError(t, err)
	require.NoError(t, rq.Enqueue(3))
	require.NoError(t, rq.Enqueue(4))

	value, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 2, value)
	value, err = rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 3, value)
	value, err = rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 4, value)
}

func TestRingQueuePeekDoesNotRemove(t *testing.T) {
	rq := NewRingQueue[int](2)
	require.NoError(t, rq.Enqueue(7))

	value, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.Equal(t, 1, rq.Len())
}
