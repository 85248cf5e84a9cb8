package async

import "errors"

var (
	// ErrPoolFull is returned when every worker slot is taken.
	ErrPoolFull = errors.New("async: worker pool is full")

	// ErrPoolClosed is returned when work is submitted after Shutdown.
	ErrPoolClosed = errors.New("async: worker pool is closed")

	// ErrPanicked completes a future whose task panicked.
	ErrPanicked = errors.New("async: task panicked")
)
