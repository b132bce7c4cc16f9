package builder

import (
	"context"
	"sync"
)

// Task is a deferred computation producing a value once. It exists so the
// surrounding engine can schedule materialization alongside other deferred
// column loads; resolving synchronously is permitted and is what Await
// does on first use. There is no cancellation once the computation has
// begun.
type Task[T any] struct {
	once sync.Once
	fn   func() (T, error)
	val  T
	err  error
}

// NewTask wraps fn into a deferred value. fn runs at most once, on the
// first Await.
func NewTask[T any](fn func() (T, error)) *Task[T] {
	return &Task[T]{fn: fn}
}

// Resolved returns an already-completed task.
func Resolved[T any](val T) *Task[T] {
	t := &Task[T]{}
	t.once.Do(func() { t.val = val })
	return t
}

// Await resolves the task, running the computation on first use. The
// context is only consulted before the computation starts; a task that has
// begun runs to completion.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	t.once.Do(func() {
		if t.fn != nil {
			t.val, t.err = t.fn()
		}
	})
	return t.val, t.err
}
