// Package handler is the first layer after the router.
//
// It parses requests, binds and validates input through the validation
// package, and calls the service layer. It acts as the interface between
// the HTTP request and the business logic.
package handler

import (
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Mapping *MappingHandler
	Pet     *PetHandler
	Upload  *UploadHandler
	Async   *AsyncHandler
	Inject  *InjectHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Mapping: NewMappingHandler(s),
		Pet:     NewPetHandler(s, services.Pet),
		Upload:  NewUploadHandler(s),
		Async:   NewAsyncHandler(s, services.Async),
		Inject:  NewInjectHandler(s),
	}
}
