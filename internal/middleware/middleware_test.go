package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbertvdzon/webdemo/internal/config"
	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/model"
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/validation"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	s, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)
	return s
}

// newTestEcho registers fail under /scoped (pets scope) and /unscoped.
func newTestEcho(t *testing.T, fail error) *echo.Echo {
	t.Helper()

	mws := NewMiddlewares(newTestServer(t))

	e := echo.New()
	e.HTTPErrorHandler = mws.Global.GlobalErrorHandler
	e.Use(RequestID(), mws.ContextEnhancer.EnhanceContext())

	h := func(c echo.Context) error { return fail }
	e.GET("/scoped", h, Scope(PetsScope))
	e.GET("/unscoped", h)

	return e
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func emptyPetViolations() *validation.BindingResult {
	return validation.Validate(&model.Pet{}, "pet")
}

func TestGlobalErrorHandler_ViolationsInScope(t *testing.T) {
	e := newTestEcho(t, validation.NewViolationsError(emptyPetViolations()))

	rec := serve(e, "/scoped")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain)
	assert.Equal(t,
		"The following errors are found: name: Name cannot be empty,gender: Gender cannot be empty",
		rec.Body.String())
}

func TestGlobalErrorHandler_ViolationsOutOfScopeFallsThrough(t *testing.T) {
	e := newTestEcho(t, validation.NewViolationsError(emptyPetViolations()))

	rec := serve(e, "/unscoped")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "The following errors are found")
}

func TestGlobalErrorHandler_ViolationsWithoutCarrier(t *testing.T) {
	e := newTestEcho(t, validation.NewViolationsError(nil))

	rec := serve(e, "/scoped")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The following errors are found: ", rec.Body.String())
}

func TestGlobalErrorHandler_BindingFailedIsGlobal(t *testing.T) {
	for _, path := range []string{"/scoped", "/unscoped"} {
		t.Run(path, func(t *testing.T) {
			e := newTestEcho(t, validation.NewBindingFailedError(emptyPetViolations()))

			rec := serve(e, path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body []string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, []string{"name: Name cannot be empty", "gender: Gender cannot be empty"}, body)
		})
	}
}

func TestGlobalErrorHandler_AppError(t *testing.T) {
	e := newTestEcho(t, errors.WithStack(errs.NewAppError("my error")))

	rec := serve(e, "/unscoped")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Application error : my error", rec.Body.String())
}

func TestGlobalErrorHandler_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error", errs.NewMalformedRequestError("broken"), http.StatusBadRequest, "MALFORMED_REQUEST"},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"echo too many", echo.ErrTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"binding error", echo.NewBindingError("ownerId", []string{"x"}, "failed to bind field value to int64", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestEcho(t, tt.err), "/unscoped")

			assert.Equal(t, tt.status, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, rec.Body.String(), "db exploded")
		})
	}
}

func TestGlobalErrorHandler_UnknownRoute(t *testing.T) {
	rec := serve(newTestEcho(t, nil), "/nowhere")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestTranslator_FirstMatchingRuleWins(t *testing.T) {
	always := func(error) bool { return true }
	tr := NewTranslator(
		Rule{Name: "scoped", Scope: "other", Status: 418, Match: always, Body: func(echo.Context, error) any { return "scoped" }},
		Rule{Name: "first", Status: 409, Match: always, Body: func(echo.Context, error) any { return "first" }},
		Rule{Name: "second", Status: 410, Match: always, Body: func(echo.Context, error) any { return "second" }},
	)

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	got, ok := tr.Translate(c, errors.New("x"))
	require.True(t, ok)
	assert.Equal(t, Translation{Rule: "first", Status: 409, Body: "first"}, got)

	c.Set(ScopeKey, "other")
	got, ok = tr.Translate(c, errors.New("x"))
	require.True(t, ok)
	assert.Equal(t, "scoped", got.Rule)
}

func TestTranslator_BodyNeverFails(t *testing.T) {
	tr := NewTranslator(
		Rule{Name: "panics", Status: 400, Match: func(error) bool { return true }, Body: func(echo.Context, error) any { panic("nil content") }},
	)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	got, ok := tr.Translate(c, errors.New("x"))
	require.True(t, ok)
	assert.Equal(t, "", got.Body)

	_, ok = NewTranslator().Translate(c, errors.New("x"))
	assert.False(t, ok)
}

func TestTranslator_FailingBodyKeepsPrefix(t *testing.T) {
	always := func(error) bool { return true }
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	tr := NewTranslator(Rule{
		Name:   "panics",
		Status: http.StatusBadRequest,
		Prefix: violationsHeader,
		Match:  always,
		Body:   func(echo.Context, error) any { panic("summary failed") },
	})
	got, ok := tr.Translate(c, errors.New("x"))
	require.True(t, ok)
	assert.Equal(t, "The following errors are found: ", got.Body)

	tr = NewTranslator(Rule{
		Name:   "nil",
		Status: http.StatusBadRequest,
		Prefix: appErrorHeader,
		Match:  always,
		Body:   func(echo.Context, error) any { return nil },
	})
	got, ok = tr.Translate(c, errors.New("x"))
	require.True(t, ok)
	assert.Equal(t, "Application error : ", got.Body)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
}

func TestEnhanceContext_StoresLoggerInRequestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)

	mws := NewMiddlewares(s)

	e := echo.New()
	e.Use(RequestID(), mws.ContextEnhancer.EnhanceContext())
	e.GET("/", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), "from context")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.Config.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}

	mws := NewMiddlewares(s)
	e := echo.New()
	e.HTTPErrorHandler = mws.Global.GlobalErrorHandler
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mws.RateLimit.Limit())

	assert.Equal(t, http.StatusOK, serve(e, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, "/").Code)
}

func TestGetLogger_Fallbacks(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}
