package router

import (
	"github.com/labstack/echo/v4"

	"github.com/robbertvdzon/webdemo/internal/handler"
)

// registerSystemRoutes registers the endpoints that are not part of the demo:
// health, docs UI and the static files the docs UI loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
