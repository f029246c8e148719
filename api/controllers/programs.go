package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kinawahq/foodorder-backend/api/responses"
	"github.com/kinawahq/foodorder-backend/api/validators"
	"github.com/kinawahq/foodorder-backend/internal/programs"
	"github.com/kinawahq/foodorder-backend/pkg/logger"
)

// ListPrograms returns programs ordered by category then name.
func ListPrograms(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly, err := validators.QueryBool(r, "active", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProgramsByCategory returns programs grouped per category.
func ProgramsByCategory(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly, err := validators.QueryBool(r, "active", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groups, err := svc.ListByCategory(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

type createProgramRequest struct {
	ShortCode string `json:"short_code" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Color     string `json:"color,omitempty"`
}

// CreateProgram registers a new program bucket.
func CreateProgram(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProgramRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		program, err := svc.Create(r.Context(), programs.CreateProgramInput{
			ShortCode: payload.ShortCode,
			Name:      payload.Name,
			Category:  payload.Category,
			Color:     payload.Color,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, program)
	}
}

// DeactivateProgram retires a program bucket.
func DeactivateProgram(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		program, err := svc.Deactivate(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, program)
	}
}
