package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/robbertvdzon/webdemo/internal/model"
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/service"
	"github.com/robbertvdzon/webdemo/internal/validation"
)

// PetHandler serves the pet endpoints: path and query binding, the three
// ways of reacting to validation violations, and the application error.
type PetHandler struct {
	Handler
	petService *service.PetService
}

func NewPetHandler(s *server.Server, petService *service.PetService) *PetHandler {
	return &PetHandler{
		Handler:    NewHandler(s),
		petService: petService,
	}
}

// FindPet handles GET /owners/:ownerId/pets/:petId. Both ids must be integers.
func (h *PetHandler) FindPet(c echo.Context) error {
	var ownerID, petID int64

	err := echo.PathParamsBinder(c).
		MustInt64("ownerId", &ownerID).
		MustInt64("petId", &petID).
		BindError()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.petService.FindPet(c.Request().Context(), ownerID, petID))
}

// GetWithParams handles GET /getwithparams?name=&gender=. Both parameters
// are required; a missing value or unknown gender is a binding error.
func (h *PetHandler) GetWithParams(c echo.Context) error {
	var name, gender string

	err := echo.QueryParamsBinder(c).
		MustString("name", &name).
		MustString("gender", &gender).
		BindError()
	if err != nil {
		return err
	}

	g, err := model.ParseGender(gender)
	if err != nil {
		return echo.NewBindingError("gender", []string{gender}, "failed to bind field value to Gender", err)
	}

	return c.JSON(http.StatusOK, model.NewPet(name, g))
}

// GetWithParams2 handles GET /getwithparams2 from the raw parameter map.
// Nothing is checked up front: an unknown gender fails the request.
func (h *PetHandler) GetWithParams2(c echo.Context) error {
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	pet, err := h.petService.PetFromParams(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pet)
}

// AddPet handles POST /pets. It inspects the binding result itself and
// rejects the request with it when there are violations.
func (h *PetHandler) AddPet(c echo.Context, pet model.Pet, result *validation.BindingResult) (model.Pet, error) {
	if result.HasErrors() {
		return model.Pet{}, validation.NewViolationsError(result)
	}
	return pet, nil
}

// AddPetValid handles POST /pets2. It is only reached with a valid pet.
func (h *PetHandler) AddPetValid(c echo.Context, pet model.Pet) (model.Pet, error) {
	return pet, nil
}

// AddPetChecked handles POST /pets3. Same as AddPet, through the read-only Errors view.
func (h *PetHandler) AddPetChecked(c echo.Context, pet model.Pet, errs validation.Errors) (model.Pet, error) {
	if errs.HasErrors() {
		return model.Pet{}, validation.NewViolationsError(errs)
	}
	return pet, nil
}

// AppError handles GET /apperror, which always fails with an application error.
func (h *PetHandler) AppError(c echo.Context) error {
	return h.petService.Reject("my error")
}
