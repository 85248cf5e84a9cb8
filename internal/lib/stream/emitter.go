// Package stream connects one producer to one response writer through a
// bounded channel.
package stream

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrStopped is returned by Send once the consumer has gone away.
	ErrStopped = errors.New("stream: consumer stopped")

	// ErrCompleted is returned by Send after Complete.
	ErrCompleted = errors.New("stream: already completed")
)

// Emitter carries values from a single producer to a single consumer in
// the order they were sent. The producer owns the channel: it is the only
// one allowed to call Send and Complete, and Complete closes the channel.
// The consumer reads Values until it is closed, or calls Stop to give up.
type Emitter[T any] struct {
	values    chan T
	stopped   chan struct{}
	stopOnce  sync.Once
	completed bool
}

// NewEmitter creates an emitter buffering up to buffer values.
func NewEmitter[T any](buffer int) *Emitter[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Emitter[T]{
		values:  make(chan T, buffer),
		stopped: make(chan struct{}),
	}
}

// Send queues v, blocking while the buffer is full.
func (e *Emitter[T]) Send(ctx context.Context, v T) error {
	if e.completed {
		return ErrCompleted
	}

	select {
	case <-e.stopped:
		return ErrStopped
	default:
	}

	select {
	case e.values <- v:
		return nil
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Complete closes the channel. Further calls are no-ops.
func (e *Emitter[T]) Complete() {
	if e.completed {
		return
	}
	e.completed = true
	close(e.values)
}

// Values is read by the consumer until it is closed.
func (e *Emitter[T]) Values() <-chan T {
	return e.values
}

// Stop tells the producer nobody is reading anymore. Safe to call more than once.
func (e *Emitter[T]) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopped)
	})
}

// Stopped is closed once the consumer called Stop.
func (e *Emitter[T]) Stopped() <-chan struct{} {
	return e.stopped
}
