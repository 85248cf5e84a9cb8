package service

import (
	"github.com/robbertvdzon/webdemo/internal/server"
)

// Services groups the business layer so handlers receive a single value.
type Services struct {
	Pet   *PetService
	Async *AsyncService
}

func NewServices(s *server.Server) (*Services, error) {
	return &Services{
		Pet:   NewPetService(s),
		Async: NewAsyncService(s),
	}, nil
}
