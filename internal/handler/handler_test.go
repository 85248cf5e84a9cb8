package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbertvdzon/webdemo/internal/config"
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/validation"
)

type note struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}

func (n note) Validate() error {
	if n.Body == n.Title && n.Title != "" {
		return validation.CustomValidationErrors{{Message: "body must differ from title"}}
	}
	return nil
}

func newTestHandler(t *testing.T) Handler {
	t.Helper()

	logger := zerolog.Nop()
	s, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)
	return NewHandler(s)
}

func newJSONContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestHandle_OnlyRunsForValidInput(t *testing.T) {
	h := newTestHandler(t)

	called := false
	fn := Handle(h, func(c echo.Context, n note) (note, error) {
		called = true
		return n, nil
	}, http.StatusCreated)

	c, _ := newJSONContext(`{"title":"same","body":"same"}`)
	err := fn(c)

	var failed *validation.BindingFailedError
	require.True(t, errors.As(err, &failed))
	assert.False(t, called)
	assert.Equal(t, []string{"note: body must differ from title"}, failed.Messages())

	c, rec := newJSONContext(`{"title":"a","body":"b"}`)
	require.NoError(t, fn(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"title":"a","body":"b"}`, rec.Body.String())
}

func TestHandleWithResult_PassesViolations(t *testing.T) {
	h := newTestHandler(t)

	var seen *validation.BindingResult
	fn := HandleWithResult(h, func(c echo.Context, n note, result *validation.BindingResult) (note, error) {
		seen = result
		return n, nil
	}, http.StatusOK)

	c, rec := newJSONContext(`{}`)
	require.NoError(t, fn(c))

	require.NotNil(t, seen)
	assert.True(t, seen.HasErrors())
	assert.Equal(t, "title", seen.AllViolations()[0].Location)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleWithErrors_PassesReadOnlyView(t *testing.T) {
	h := newTestHandler(t)

	fn := HandleWithErrors(h, func(c echo.Context, n note, errs validation.Errors) (note, error) {
		if errs.HasErrors() {
			return note{}, validation.NewViolationsError(errs)
		}
		return n, nil
	}, http.StatusOK)

	c, _ := newJSONContext(`{}`)
	err := fn(c)

	var violations *validation.ViolationsError
	require.True(t, errors.As(err, &violations))
	assert.Equal(t, "title: is required", violations.Summary())
}

func TestHandle_MalformedBodyNeverReachesEndpoint(t *testing.T) {
	h := newTestHandler(t)

	fn := HandleWithResult(h, func(c echo.Context, n note, result *validation.BindingResult) (note, error) {
		t.Fatal("endpoint must not run")
		return n, nil
	}, http.StatusOK)

	c, _ := newJSONContext(`not json`)
	assert.Error(t, fn(c))
}

func TestParseMatrixSegment(t *testing.T) {
	id, vars, err := parseMatrixSegment("42;q=11;r=12,13")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Equal(t, url.Values{"q": {"11"}, "r": {"12", "13"}}, vars)

	id, vars, err = parseMatrixSegment("21")
	require.NoError(t, err)
	assert.Equal(t, "21", id)
	assert.Empty(t, vars)

	_, _, err = parseMatrixSegment("21;=5")
	assert.Error(t, err)
}

func TestJarFilePattern(t *testing.T) {
	m := jarFilePattern.FindStringSubmatch("spring-web-3.0.5.jar")
	require.Len(t, m, 4)
	assert.Equal(t, []string{"spring-web", "3.0.5", ".jar"}, m[1:])

	for _, name := range []string{"spring-web.jar", "Spring-3.0.5.jar", "web-3.0.jar", "web-3.0.5"} {
		assert.Nil(t, jarFilePattern.FindStringSubmatch(name), name)
	}
}

func TestInjectHandler_Locale(t *testing.T) {
	logger := zerolog.Nop()
	s, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)
	h := NewInjectHandler(s)

	assert.Equal(t, "en-US", h.locale("").String())
	assert.Equal(t, "en-US", h.locale("!!").String())
	assert.Equal(t, "de", h.locale("fr;q=0.5, de").String())
}

func TestCheckHealth_SaturatedPoolIsDegraded(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Demo.Workers = 1

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	release := make(chan struct{})
	require.NoError(t, s.Workers.Go(func(ctx context.Context) { <-release }))
	t.Cleanup(func() {
		close(release)
		_ = s.Workers.Shutdown(context.Background())
	})

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, NewHealthHandler(s).CheckHealth(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Workers struct {
				Status  string `json:"status"`
				Running int64  `json:"running"`
			} `json:"workers"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "degraded", body.Checks.Workers.Status)
	assert.Equal(t, int64(1), body.Checks.Workers.Running)
}
