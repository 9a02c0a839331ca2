// Package server provides the JSON HTTP API the browser UI talks to.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-assistant/internal/history"
	"github.com/jonathan/resume-assistant/internal/ingestion"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		notFound   *ErrNotFound
		fetchErr   *ingestion.Error
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validation),
		errors.Is(err, workspace.ErrInvalidDesign),
		errors.Is(err, history.ErrInvalidStatus),
		errors.Is(err, history.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.As(err, &notFound),
		errors.Is(err, workspace.ErrApplicationNotFound),
		errors.Is(err, workspace.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrGenerationInFlight),
		errors.Is(err, workspace.ErrJobDescriptionLocked),
		errors.Is(err, workspace.ErrStaleTurn):
		return http.StatusConflict
	case errors.Is(err, workspace.ErrConfirmationRequired),
		errors.Is(err, workspace.ErrNoArtifact):
		return http.StatusPreconditionRequired
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrWrite):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}
