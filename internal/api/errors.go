package api

import (
	"errors"
	"net/http"

	"github.com/vibegen/mission-control/internal/api/respond"
	"github.com/vibegen/mission-control/internal/model"
)

// writeServiceError maps domain errors to HTTP status codes for better
// client feedback.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
