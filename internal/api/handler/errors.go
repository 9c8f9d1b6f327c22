package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/api/response"
	"github.com/Rrens/room-designer/internal/capacity"
	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/security"
	"github.com/Rrens/room-designer/internal/service"
	"github.com/Rrens/room-designer/internal/worker"
)

var validate = validator.New()

// decode reads a JSON body into input and validates it.
// It writes the error response and returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, input any) bool {
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				tag := e.Tag()
				switch tag {
				case "required":
					fields[field] = "field is required"
				case "gt":
					fields[field] = "must be greater than " + e.Param()
				case "gte":
					fields[field] = "must be at least " + e.Param()
				case "lte":
					fields[field] = "must be at most " + e.Param()
				case "min":
					fields[field] = "must contain at least " + e.Param() + " item(s)"
				case "url":
					fields[field] = "must be a valid URL"
				default:
					fields[field] = "validation failed on " + tag
				}
			}
			response.BadRequest(w, fields)
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}

// writeServiceError maps service errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		prereq   *domain.PrerequisiteError
		invalid  *domain.ValidationError
		exceeded *capacity.ExceededError
		external *domain.ExternalError
	)

	switch {
	case errors.As(err, &prereq):
		response.ErrorWithData(w, http.StatusBadRequest, prereq.Error(), map[string]any{
			"missing_step": prereq.Step.Name(),
		})
	case errors.As(err, &exceeded):
		response.ErrorWithData(w, http.StatusBadRequest, exceeded.Error(), map[string]any{
			"current_percentage":   exceeded.CurrentPercentage,
			"projected_percentage": exceeded.ProjectedPercentage,
			"max_percentage":       exceeded.MaxPercentage,
		})
	case errors.As(err, &invalid):
		response.BadRequest(w, invalid.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		response.NotFound(w, "Session not found. Please upload image first.")
	case errors.Is(err, catalog.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, worker.ErrTaskNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, security.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		response.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &external):
		log.Error().Err(err).Str("path", r.URL.Path).Str("service", external.Service).Msg("upstream failure")
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		// capacity.ErrInvalidInput lands here: a broken session invariant, never clamped
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		response.InternalError(w, err.Error())
	}
}
