// Package promise provides a value that is resolved exactly once and can be
// awaited by any number of readers.
package promise

import (
	"context"
	"sync/atomic"
)

type Promise[T any] struct {
	resolved atomic.Bool
	done     chan struct{}
	value    T
}

func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise that already holds v.
func Resolved[T any](v T) *Promise[T] {
	p := New[T]()
	p.Resolve(v)
	return p
}

// Resolve stores v if the promise is still pending. It reports whether this
// call was the one that resolved it; later calls are no-ops.
func (p *Promise[T]) Resolve(v T) bool {
	if !p.resolved.CompareAndSwap(false, true) {
		return false
	}
	p.value = v
	close(p.done)
	return true
}

func (p *Promise[T]) Done() <-chan struct{} { return p.done }

// Value returns the resolved value without blocking.
func (p *Promise[T]) Value() (T, bool) {
	select {
	case <-p.done:
		return p.value, true
	default:
		var zero T
		return zero, false
	}
}

// Await blocks until the promise resolves or ctx ends. Giving up on ctx does
// not affect the promise.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
