package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/model"
	"github.com/robbertvdzon/webdemo/internal/server"
)

type PetService struct {
	server *server.Server
}

func NewPetService(s *server.Server) *PetService {
	return &PetService{server: s}
}

// FindPet looks up a pet of an owner. There is no storage behind it: every
// lookup returns Boof.
func (ps *PetService) FindPet(ctx context.Context, ownerID, petID int64) model.Pet {
	zerolog.Ctx(ctx).Debug().
		Int64("owner_id", ownerID).
		Int64("pet_id", petID).
		Msg("finding pet")

	return model.NewPet("Boof", model.GenderMale)
}

// PetFromParams builds a pet from a loose parameter map. An unknown gender
// is not a client error here; it surfaces as an unclassified failure.
func (ps *PetService) PetFromParams(params map[string]string) (model.Pet, error) {
	gender, err := model.ParseGender(params["gender"])
	if err != nil {
		return model.Pet{}, fmt.Errorf("pet from params: %w", err)
	}

	return model.NewPet(params["name"], gender), nil
}

// Reject always fails with an application error carrying message.
func (ps *PetService) Reject(message string) error {
	return errors.WithStack(errs.NewAppError(message))
}
