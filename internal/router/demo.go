package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/robbertvdzon/webdemo/internal/handler"
	"github.com/robbertvdzon/webdemo/internal/middleware"
)

func registerDemoRoutes(r *echo.Echo, h *handler.Handlers) {
	// Request mapping per method.
	r.GET("/getmapping", h.Mapping.Echo("getmapping"))
	r.GET("/getmapping2", h.Mapping.Echo("getmapping2"))
	r.POST("/postmapping", h.Mapping.Echo("postmapping"))
	r.PATCH("/patchmapping", h.Mapping.Echo("patchmapping"))
	r.PUT("/putmapping", h.Mapping.Echo("putmapping"))
	r.DELETE("/deletemapping", h.Mapping.Echo("deletemapping"))

	r.GET("/jarinfo/:file", h.Mapping.JarInfo)
	r.GET("/matrixexample/:ownerId/pets/:petId", h.Mapping.MatrixExample)

	// Pet handler group. Violation errors raised here are answered by the
	// pets-scoped translation rule.
	pets := middleware.Scope(middleware.PetsScope)

	r.GET("/owners/:ownerId/pets/:petId", h.Pet.FindPet, pets)
	r.GET("/getwithparams", h.Pet.GetWithParams, pets)
	r.GET("/getwithparams2", h.Pet.GetWithParams2, pets)
	r.POST("/pets", handler.HandleWithResult(h.Pet.Handler, h.Pet.AddPet, http.StatusOK), pets)
	r.POST("/pets2", handler.Handle(h.Pet.Handler, h.Pet.AddPetValid, http.StatusOK), pets)
	r.POST("/pets3", handler.HandleWithErrors(h.Pet.Handler, h.Pet.AddPetChecked, http.StatusOK), pets)
	r.GET("/apperror", h.Pet.AppError, pets)

	r.POST("/upload", h.Upload.Upload)
	r.GET("/injectdemo", h.Inject.InjectDemo)

	r.GET("/getasync", h.Async.GetAsync)
	r.GET("/httpstream", h.Async.HTTPStream)
}
