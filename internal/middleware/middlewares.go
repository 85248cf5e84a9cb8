package middleware

import (
	"github.com/robbertvdzon/webdemo/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server so
// router setup receives one object.
type Middlewares struct {
	// Global holds CORS, body limit, request logging, recovery, secure
	// headers and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer stores a request-scoped logger on every request.
	ContextEnhancer *ContextEnhancer

	// Tracing wires New Relic transactions and attributes.
	Tracing *TracingMiddleware

	// RateLimit is the optional per-ip limiter.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components using the application
// container. New Relic parts degrade to no-ops when it is not configured.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s, NewTranslator(DefaultRules()...)),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
