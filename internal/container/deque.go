// Package container implements container data structures.
package container

import "iter"

const minDequeCapacity = 16

// Deque is a growable double-ended queue backed by a circular buffer.
// Append and remove at either end are O(1); the buffer doubles when full.
// Enumeration visits items in logical front-to-back order.
//
// The zero value is not usable; call NewDeque.
type Deque[T any] struct {
	buf   []T
	front int
	count int
}

// NewDeque creates an empty Deque.
func NewDeque[T any]() *Deque[T] {
	return &Deque[T]{buf: make([]T, minDequeCapacity)}
}

// Len returns the number of items.
func (d *Deque[T]) Len() int {
	return d.count
}

// PushBack appends an item at the back.
func (d *Deque[T]) PushBack(item T) {
	d.growIfFull()
	d.buf[(d.front+d.count)&(len(d.buf)-1)] = item
	d.count++
}

// PushFront prepends an item at the front.
func (d *Deque[T]) PushFront(item T) {
	d.growIfFull()
	d.front = (d.front - 1) & (len(d.buf) - 1)
	d.buf[d.front] = item
	d.count++
}

// PopFront removes and returns the front item. The boolean is false when
// the deque is empty.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.count == 0 {
		return zero, false
	}
	item := d.buf[d.front]
	d.buf[d.front] = zero
	d.front = (d.front + 1) & (len(d.buf) - 1)
	d.count--
	return item, true
}

// PopBack removes and returns the back item. The boolean is false when
// the deque is empty.
func (d *Deque[T]) PopBack() (T, bool) {
	var zero T
	if d.count == 0 {
		return zero, false
	}
	pos := (d.front + d.count - 1) & (len(d.buf) - 1)
	item := d.buf[pos]
	d.buf[pos] = zero
	d.count--
	return item, true
}

// Front returns the front item without removing it.
func (d *Deque[T]) Front() (T, bool) {
	if d.count == 0 {
		var zero T
		return zero, false
	}
	return d.buf[d.front], true
}

// Back returns the back item without removing it.
func (d *Deque[T]) Back() (T, bool) {
	if d.count == 0 {
		var zero T
		return zero, false
	}
	return d.buf[(d.front+d.count-1)&(len(d.buf)-1)], true
}

// All iterates the items in logical order, front to back.
func (d *Deque[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < d.count; i++ {
			if !yield(d.buf[(d.front+i)&(len(d.buf)-1)]) {
				return
			}
		}
	}
}

// growIfFull doubles the buffer when every slot is occupied, unwrapping
// the circular layout into the new buffer.
func (d *Deque[T]) growIfFull() {
	if d.count < len(d.buf) {
		return
	}
	buf := make([]T, len(d.buf)*2)
	n := copy(buf, d.buf[d.front:])
	copy(buf[n:], d.buf[:d.front])
	d.buf = buf
	d.front = 0
}
