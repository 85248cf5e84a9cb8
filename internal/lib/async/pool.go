package async

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Pool runs tasks on at most size goroutines at a time. Submissions beyond
// that are refused with ErrPoolFull instead of queueing.
type Pool struct {
	size    int64
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	running atomic.Int64
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool

	// ctx is handed to every task and canceled when Shutdown gives up waiting.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool with size worker slots.
func NewPool(size int64, logger zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		size:   size,
		sem:    semaphore.NewWeighted(size),
		logger: logger.With().Str("component", "worker_pool").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go schedules fn on a free worker. Tasks are detached from the caller:
// they keep running after the submitting request returns.
func (p *Pool) Go(fn func(ctx context.Context)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	if !p.sem.TryAcquire(1) {
		p.logger.Warn().Int64("size", p.size).Msg("worker pool is full")
		return ErrPoolFull
	}

	p.wg.Add(1)
	p.running.Add(1)

	go func() {
		defer func() {
			p.running.Add(-1)
			p.sem.Release(1)
			p.wg.Done()

			if r := recover(); r != nil {
				p.logger.Error().Interface("panic", r).Msg("task panicked")
			}
		}()

		fn(p.ctx)
	}()

	return nil
}

// Running is the number of tasks currently executing.
func (p *Pool) Running() int64 {
	return p.running.Load()
}

// Size is the maximum number of concurrent tasks.
func (p *Pool) Size() int64 {
	return p.size
}

// Shutdown refuses new work and waits for running tasks. If ctx ends
// first, the tasks' context is canceled and ctx.Err is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}

// Submit runs fn on the pool and returns a future for its result.
// A panic in fn fails the future with ErrPanicked.
func Submit[T any](p *Pool, fn func(ctx context.Context) (T, error)) (*Future[T], error) {
	future := NewFuture[T]()

	err := p.Go(func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				future.Fail(fmt.Errorf("%w: %v", ErrPanicked, r))
				panic(r)
			}
		}()

		v, err := fn(ctx)
		if err != nil {
			future.Fail(err)
			return
		}
		future.Complete(v)
	})
	if err != nil {
		return nil, err
	}

	return future, nil
}
