package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/robbertvdzon/webdemo/internal/middleware"
	"github.com/robbertvdzon/webdemo/internal/server"
)

// HealthHandler exposes the endpoint monitors and load balancers poll.
type HealthHandler struct {
	Handler
	startedAt time.Time
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler:   NewHandler(s),
		startedAt: time.Now(),
	}
}

// CheckHealth always answers 200 while the process serves requests. A full
// worker pool only marks the workers check, and the overall status, as
// degraded: new deferred or streaming requests get a 503 of their own.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	running, size := h.server.Workers.Running(), h.server.Workers.Size()

	workers := map[string]interface{}{
		"status":  "healthy",
		"running": running,
		"size":    size,
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
		"environment": h.server.Config.Primary.Env,
		"checks": map[string]interface{}{
			"workers": workers,
		},
	}

	if running >= size {
		workers["status"] = "degraded"
		response["status"] = "degraded"

		logger.Warn().
			Int64("running", running).
			Int64("size", size).
			Msg("health check degraded: worker pool saturated")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type": "workers",
				"operation":  "health_check",
				"error_type": "workers_saturated",
				"running":    running,
				"size":       size,
			})
		}
	} else {
		logger.Debug().Msg("health check passed")
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
