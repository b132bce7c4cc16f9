package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDequeBothEnds(t *testing.T) {
	d := NewDeque[int]()

	d.PushBack(2)
	d.PushBack(3)
	d.PushFront(1)
	require.Equal(t, 3, d.Len())

	front, ok := d.Front()
	require.True(t, ok)
	assert.Equal(t, 1, front)

	back, ok := d.Back()
	require.True(t, ok)
	assert.Equal(t, 3, back)

	v, ok := d.PopFront()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = d.PopBack()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = d.PopFront()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = d.PopFront()
	assert.False(t, ok)
	_, ok = d.PopBack()
	assert.False(t, ok)
}

func TestDequeGrowthPreservesOrder(t *testing.T) {
	d := NewDeque[int]()

	// Wrap the ring before growing: rotate the front a few slots.
	for i := 0; i < 5; i++ {
		d.PushBack(0)
	}
	for i := 0; i < 5; i++ {
		d.PopFront()
	}

	const n = 1000
	for i := 0; i < n; i++ {
		d.PushBack(i)
	}
	require.Equal(t, n, d.Len())

	var got []int
	for v := range d.All() {
		got = append(got, v)
	}
	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestDequeInterleaved(t *testing.T) {
	d := NewDeque[int]()

	for i := 1; i <= 100; i++ {
		d.PushFront(-i)
		d.PushBack(i)
	}
	require.Equal(t, 200, d.Len())

	front, _ := d.Front()
	back, _ := d.Back()
	assert.Equal(t, -100, front)
	assert.Equal(t, 100, back)

	prev := -101
	for v := range d.All() {
		assert.Greater(t, v, prev)
		prev = v
	}
}
