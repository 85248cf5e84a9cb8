package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/robbertvdzon/webdemo/internal/lib/async"
	"github.com/robbertvdzon/webdemo/internal/lib/stream"
	"github.com/robbertvdzon/webdemo/internal/server"
)

// AsyncResult is the value a deferred computation completes with.
const AsyncResult = "getasync"

// StreamMessages are pushed, in order, by every stream producer.
var StreamMessages = []string{"Hello once", "Hello again"}

// AsyncService starts the background work behind deferred and streamed
// responses. Each call gets its own worker; workers share nothing but the
// future or emitter they were handed.
type AsyncService struct {
	server *server.Server
}

func NewAsyncService(s *server.Server) *AsyncService {
	return &AsyncService{server: s}
}

// Deferred returns at once with a future completed after demo.async_delay.
func (as *AsyncService) Deferred(ctx context.Context) (*async.Future[string], error) {
	logger := zerolog.Ctx(ctx).With().Str("operation", "deferred").Logger()
	delay := as.server.Config.Demo.AsyncDelay

	future, err := async.Submit(as.server.Workers, func(workerCtx context.Context) (string, error) {
		if !sleep(workerCtx, nil, delay) {
			return "", workerCtx.Err()
		}

		logger.Debug().Dur("delay", delay).Msg("deferred result completed")
		return AsyncResult, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "start deferred result")
	}

	return future, nil
}

// Stream returns an emitter fed by a producer that waits demo.stream_interval
// before each message and once more before completing the stream.
func (as *AsyncService) Stream(ctx context.Context) (*stream.Emitter[string], error) {
	logger := zerolog.Ctx(ctx).With().Str("operation", "stream").Logger()
	demo := as.server.Config.Demo
	emitter := stream.NewEmitter[string](demo.StreamBuffer)

	err := as.server.Workers.Go(func(workerCtx context.Context) {
		defer emitter.Complete()

		for _, msg := range StreamMessages {
			if !sleep(workerCtx, emitter.Stopped(), demo.StreamInterval) {
				logger.Debug().Msg("stream abandoned")
				return
			}

			if err := emitter.Send(workerCtx, msg); err != nil {
				logger.Debug().Err(err).Msg("stream abandoned")
				return
			}
		}

		sleep(workerCtx, emitter.Stopped(), demo.StreamInterval)
	})
	if err != nil {
		return nil, errors.Wrap(err, "start stream producer")
	}

	return emitter, nil
}

// sleep waits for d and reports false if ctx ended or stop closed first.
func sleep(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	}
}
