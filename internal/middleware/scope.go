package middleware

import (
	"github.com/labstack/echo/v4"
)

// ScopeKey stores the handler group name in the Echo context.
const ScopeKey = "handler_scope"

// PetsScope is the handler group of the pet endpoints.
const PetsScope = "pets"

// Scope tags every request of a handler group with name, so translation
// rules restricted to that group can match.
func Scope(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ScopeKey, name)
			return next(c)
		}
	}
}

// GetScope returns the handler group of the request, or "" outside any group.
func GetScope(c echo.Context) string {
	if scope, ok := c.Get(ScopeKey).(string); ok {
		return scope
	}
	return ""
}
