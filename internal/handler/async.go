package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/lib/async"
	"github.com/robbertvdzon/webdemo/internal/middleware"
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/service"
)

// AsyncHandler serves responses produced by background workers.
type AsyncHandler struct {
	Handler
	asyncService *service.AsyncService
}

func NewAsyncHandler(s *server.Server, asyncService *service.AsyncService) *AsyncHandler {
	return &AsyncHandler{
		Handler:      NewHandler(s),
		asyncService: asyncService,
	}
}

// GetAsync handles GET /getasync. The request waits for the deferred result
// for at most demo.async_timeout, then gives up with 503.
func (h *AsyncHandler) GetAsync(c echo.Context) error {
	future, err := h.asyncService.Deferred(c.Request().Context())
	if err != nil {
		return workerError(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Demo.AsyncTimeout)
	defer cancel()

	result, err := future.Await(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errs.NewServiceUnavailableError("deferred result timed out")
		}
		return errors.Wrap(err, "await deferred result")
	}

	return c.String(http.StatusOK, result)
}

// HTTPStream handles GET /httpstream. Each value pushed by the producer is
// written and flushed as soon as it arrives; the response ends when the
// producer closes the stream or the client goes away.
func (h *AsyncHandler) HTTPStream(c echo.Context) error {
	ctx := c.Request().Context()

	emitter, err := h.asyncService.Stream(ctx)
	if err != nil {
		return workerError(err)
	}
	defer emitter.Stop()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	res.WriteHeader(http.StatusOK)
	res.Flush()

	logger := middleware.GetLogger(c)

	for {
		select {
		case msg, ok := <-emitter.Values():
			if !ok {
				logger.Debug().Msg("stream completed")
				return nil
			}

			if _, err := io.WriteString(res, msg); err != nil {
				logger.Warn().Err(err).Msg("stream write failed")
				return nil
			}
			res.Flush()

		case <-ctx.Done():
			logger.Debug().Msg("client left stream")
			return nil
		}
	}
}

// workerError maps a refused submission to 503.
func workerError(err error) error {
	if errors.Is(err, async.ErrPoolFull) || errors.Is(err, async.ErrPoolClosed) {
		return errs.NewServiceUnavailableError("no worker available")
	}
	return err
}
