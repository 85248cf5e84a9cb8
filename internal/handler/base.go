package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/robbertvdzon/webdemo/internal/middleware"
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/validation"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers (PetHandler, AsyncHandler, ...) embed it to reach the
// shared dependencies through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
//
// It returns the struct by value; the only field is a pointer, so copies
// share the same Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------
//
// A JSON body is bound into Req and validated before the endpoint runs.
// How violations reach the endpoint depends on the wrapper:
//
//   - Handle: the endpoint only runs for valid input; otherwise a
//     *validation.BindingFailedError is returned on its behalf.
//   - HandleWithResult: the endpoint receives the *validation.BindingResult.
//   - HandleWithErrors: the endpoint receives the read-only validation.Errors.
//
// Structural problems (media type, malformed JSON) never reach the endpoint.

// HandlerFunc is an endpoint that only sees valid payloads.
type HandlerFunc[Req, Res any] func(c echo.Context, req Req) (Res, error)

// ResultHandlerFunc is an endpoint that inspects the binding result itself.
type ResultHandlerFunc[Req, Res any] func(c echo.Context, req Req, result *validation.BindingResult) (Res, error)

// ErrorsHandlerFunc is an endpoint that inspects violations through validation.Errors.
type ErrorsHandlerFunc[Req, Res any] func(c echo.Context, req Req, errs validation.Errors) (Res, error)

// ResponseHandler defines how a successful handler result is written and
// which New Relic attributes it adds.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation names the handler type in structured logs.
	GetOperation() string

	// AddAttributes attaches New Relic attributes for this response type.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// handleRequest is the shared execution pipeline: bind and validate,
// run the endpoint, write the response, with logging, timings and tracing
// around each phase.
func handleRequest[Req any](
	c echo.Context,
	requireValid bool,
	handler func(c echo.Context, req Req, result *validation.BindingResult) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	// Total time spent in this pipeline, for logs and tracing.
	start := time.Now()

	// Route template such as "/pets2", not the concrete URL.
	route := c.Path()

	// The transaction is put on the request context by the nrecho middleware.
	// It is nil when New Relic is not configured.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	// Request-scoped logger from ContextEnhancer, already carrying the
	// request id and trace ids.
	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	// ---------------- Binding + validation phase -----------------------------
	validationStart := time.Now()

	// BindJSON separates two kinds of failure: err is a structural problem
	// (media type, malformed body) and result holds field violations.
	req, result, err := validation.BindJSON[Req](c)
	validationDuration := time.Since(validationStart)

	// Structural errors never reach the endpoint. GlobalErrorHandler turns
	// them into a 400/415 JSON response.
	if err != nil {
		logger.Error().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request binding failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "malformed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		txn.AddAttribute("validation.violations", len(result.AllViolations()))
	}

	if result.HasErrors() {
		logger.Debug().
			Int("violations", len(result.AllViolations())).
			Dur("validation_duration", validationDuration).
			Msg("request has violations")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
		}

		// Endpoints wrapped with Handle never see invalid input; the
		// failure is raised on their behalf and translated globally.
		if requireValid {
			return validation.NewBindingFailedError(result)
		}
	} else {
		if txn != nil {
			txn.AddAttribute("validation.status", "success")
		}

		logger.Debug().
			Dur("validation_duration", validationDuration).
			Msg("request validation successful")
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	res, err := handler(c, req, result)
	handlerDuration := time.Since(handlerStart)

	// Endpoint errors (violations, application errors) are returned as is;
	// the translator picks the response.
	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, res)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	// Success: let the response handler write the body.
	return responseHandler.Handle(c, res)
}

// Handle wraps an endpoint that must only run for valid input.
//
//	router.POST("/pets2", handler.Handle(h.Handler, h.AddPetValid, http.StatusOK))
func Handle[Req, Res any](h Handler, handler HandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, true, func(c echo.Context, req Req, _ *validation.BindingResult) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleWithResult wraps an endpoint that receives its BindingResult.
func HandleWithResult[Req, Res any](h Handler, handler ResultHandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, false, func(c echo.Context, req Req, result *validation.BindingResult) (interface{}, error) {
			return handler(c, req, result)
		}, JSONResponseHandler{status: status})
	}
}

// HandleWithErrors wraps an endpoint that receives violations as validation.Errors.
func HandleWithErrors[Req, Res any](h Handler, handler ErrorsHandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, false, func(c echo.Context, req Req, result *validation.BindingResult) (interface{}, error) {
			return handler(c, req, result)
		}, JSONResponseHandler{status: status})
	}
}
