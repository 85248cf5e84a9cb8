// Package async runs background work on a bounded pool and hands its
// result back through single-assignment futures.
package async

import (
	"context"
	"sync"
)

// Future is a value that is set exactly once, possibly by another goroutine.
// Readers block in Await; only the first Complete or Fail counts.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewFuture returns an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete resolves the future with v. It reports false if the future was
// already resolved.
func (f *Future[T]) Complete(v T) bool {
	return f.resolve(v, nil)
}

// Fail resolves the future with err.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.resolve(zero, err)
}

func (f *Future[T]) resolve(v T, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		resolved = true
		close(f.done)
	})
	return resolved
}

// Await blocks until the future is resolved or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
