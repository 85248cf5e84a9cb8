package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/server"
)

// GlobalMiddlewares groups the middleware installed on every route plus the
// global error handler.
type GlobalMiddlewares struct {
	server     *server.Server
	translator *Translator
}

// NewGlobalMiddlewares constructs the middleware bundle. Failures that
// escape handlers are translated by translator before falling back to the
// generic JSON error shape.
func NewGlobalMiddlewares(s *server.Server, translator *Translator) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server:     s,
		translator: translator,
	}
}

// CORS returns Echo's CORS middleware configured by the server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	// Only origins listed in server.cors_allowed_origins may call the API
	// from a browser.
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// BodyLimit rejects request bodies larger than server.body_limit.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// RequestLogger writes one "API" log line per request, with severity based
// on the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet when a
			// handler returns an error, so derive the status from the error.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = global.statusFor(c, v.Error)
			}

			// Request-scoped logger set by ContextEnhancer.
			logger := GetLogger(c)

			// Severity follows the final status.
			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns panics into errors handled by GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure adds the standard security headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// statusFor predicts the status GlobalErrorHandler will answer err with.
func (global *GlobalMiddlewares) statusFor(c echo.Context, err error) int {
	if rule, ok := global.translator.Match(c, err); ok {
		return rule.Status
	}
	return toHTTPError(err).Status
}

// GlobalErrorHandler is the dispatch boundary: every error returned by a
// handler or middleware ends up here.
//
// The translator gets the first chance. Anything it does not know is
// rendered with the errs.HTTPError JSON shape; unknown errors become a
// generic 500 so internals never reach the client.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	logger := *GetLogger(c)

	// Headers or a body were already sent (a stream that failed half-way).
	// Writing again would corrupt the response, so only log.
	if c.Response().Committed {
		logger.Error().Stack().Err(err).Msg("error after response was committed")
		return
	}

	// Failure kinds the translator knows get their dedicated response.
	if translation, ok := global.translator.Translate(c, err); ok {
		// A string body is plain text; anything else is JSON.
		var writeErr error
		if text, isText := translation.Body.(string); isText {
			writeErr = c.String(translation.Status, text)
		} else {
			writeErr = c.JSON(translation.Status, translation.Body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Str("rule", translation.Rule).Msg("failed to write error response")
		}
		return
	}

	// Everything else gets the HTTPError JSON shape.
	httpErr := toHTTPError(err)

	// Client errors are warnings; server errors get a stack trace.
	event := logger.Warn()
	if httpErr.Status >= http.StatusInternalServerError {
		event = logger.Error().Stack()
	}
	event.
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	// In production, errors flagged Override hide their message behind the
	// status text.
	if global.server.Config.IsProduction() && httpErr.Override {
		httpErr = httpErr.WithMessage(http.StatusText(httpErr.Status))
	}

	// HEAD responses must not carry a body.
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr)
}

// toHTTPError converts any error into the JSON error shape.
func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	// Path/query binder failures from echo (e.g. a non-numeric ownerId).
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		return errs.NewBadRequestError("Invalid request parameter", false, nil, []errs.FieldError{{
			Field: bindErr.Field,
			Error: fmt.Sprint(bindErr.Message),
		}})
	}

	// Framework errors: unknown route, method not allowed, body too large...
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found", false, nil)
		}

		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(echoErr.Code)
		}

		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	// Unknown errors never leak their text to the client.
	return errs.NewInternalServerError()
}
