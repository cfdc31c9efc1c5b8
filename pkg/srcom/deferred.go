package srcom

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deferred is a lazily evaluated, memoized value. The backing function runs
// at most once, on the first Get, with that caller's context. Every caller
// observes the same value and error, and concurrent callers block until the
// first evaluation completes. A failed evaluation is final.
//
// A nil *Deferred resolves to the zero value.
type Deferred[T any] struct {
	once  sync.Once
	fn    func(ctx context.Context) (T, error)
	value T
	err   error
	done  atomic.Bool
}

// Defer wraps fn without calling it.
func Defer[T any](fn func(ctx context.Context) (T, error)) *Deferred[T] {
	return &Deferred[T]{fn: fn}
}

// Resolved returns a Deferred that already holds value.
func Resolved[T any](value T) *Deferred[T] {
	d := &Deferred[T]{value: value}
	d.once.Do(func() {})
	d.done.Store(true)

	return d
}

// Absent returns a Deferred for a relation the response did not mention.
func Absent[T any]() *Deferred[T] {
	var zero T

	return Resolved(zero)
}

// Get returns the value, evaluating it on first use.
func (d *Deferred[T]) Get(ctx context.Context) (T, error) {
	if d == nil {
		var zero T

		return zero, nil
	}

	d.once.Do(func() {
		defer d.done.Store(true)

		if d.fn == nil {
			return
		}

		d.value, d.err = d.fn(ctx)
		d.fn = nil
	})

	return d.value, d.err
}

// IsEvaluated reports whether the value is available without evaluation.
func (d *Deferred[T]) IsEvaluated() bool {
	if d == nil {
		return true
	}

	return d.done.Load()
}
