package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-assistant/internal/history"
	"github.com/jonathan/resume-assistant/internal/ingestion"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "url", Message: "required"}
	assert.Equal(t, "validation error: url - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "profile", ID: "p1"}
	assert.Equal(t, "profile not found: p1", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid design", fmt.Errorf("%w: layout", workspace.ErrInvalidDesign), http.StatusBadRequest},
		{"invalid status", history.ErrInvalidStatus, http.StatusBadRequest},
		{"invalid direction", history.ErrInvalidDirection, http.StatusBadRequest},
		{"application not found", fmt.Errorf("%w: x", workspace.ErrApplicationNotFound), http.StatusNotFound},
		{"profile not found", workspace.ErrProfileNotFound, http.StatusNotFound},
		{"in flight", workspace.ErrGenerationInFlight, http.StatusConflict},
		{"locked", workspace.ErrJobDescriptionLocked, http.StatusConflict},
		{"stale", workspace.ErrStaleTurn, http.StatusConflict},
		{"confirm", workspace.ErrConfirmationRequired, http.StatusPreconditionRequired},
		{"no artifact", workspace.ErrNoArtifact, http.StatusPreconditionRequired},
		{"fetch", &ingestion.Error{URL: "http://x", Message: "HTTP status 404"}, http.StatusBadGateway},
		{"storage", &store.WriteError{Key: "applications", Cause: assert.AnError}, http.StatusInsufficientStorage},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
