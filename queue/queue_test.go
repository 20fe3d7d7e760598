package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFOOrder(t *testing.T) {
	q := New[int]()
	assert.True(t, q.IsEmpty())

	q.Push(1)
	q.Push(2)
	q.Push(3)

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 1, q.Pop())
	assert.Equal(t, 2, q.Pop())
	assert.Equal(t, 3, q.Pop())
	assert.True(t, q.IsEmpty())
}

func TestPopEmptyPanics(t *testing.T) {
	q := New[string]()
	assert.Panics(t, func() { q.Pop() })
}
