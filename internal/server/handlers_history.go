package server

import (
	"net/http"

	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

type moveRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type applicationsResponse struct {
	Applications []types.SavedApplication        `json:"applications"`
	Counts       map[types.ApplicationStatus]int `json:"counts"`
	Purged       int                             `json:"purged,omitempty"`
}

// respondApplications answers with apps and the per-status counts.
func (s *Server) respondApplications(w http.ResponseWriter, r *http.Request, apps []types.SavedApplication, purged int) {
	counts, err := s.session.History.Counts(r.Context())
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, applicationsResponse{Applications: apps, Counts: counts, Purged: purged})
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.session.History.List(r.Context())
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, 0)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	app, err := s.session.History.Get(r.Context(), id)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	if app == nil {
		s.errorFrom(w, r, &ErrNotFound{Resource: "application", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleLoadApplication replaces the workspace with a saved application.
func (s *Server) handleLoadApplication(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Workspace.LoadApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleMoveApplication(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	apps, err := s.session.History.Move(r.Context(), r.PathValue("id"), types.Direction(req.Direction))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, 0)
}

func (s *Server) handleSetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	status, err := types.ParseStatus(req.Status)
	if err != nil {
		s.errorFrom(w, r, &ErrValidation{Field: "status", Message: err.Error()})
		return
	}
	apps, err := s.session.History.SetStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, 0)
}

func (s *Server) handleTrashApplication(w http.ResponseWriter, r *http.Request) {
	apps, err := s.session.History.SoftDelete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, 0)
}

func (s *Server) handleRestoreApplication(w http.ResponseWriter, r *http.Request) {
	apps, err := s.session.History.Restore(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, 0)
}

// handlePurgeApplication deletes an application permanently. It needs
// ?confirm=true.
func (s *Server) handlePurgeApplication(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		s.errorFrom(w, r, workspace.ErrConfirmationRequired)
		return
	}
	apps, err := s.session.History.Purge(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, 0)
}

func (s *Server) handleCleanupTrash(w http.ResponseWriter, r *http.Request) {
	apps, purged, err := s.session.History.CleanupTrash(r.Context())
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.respondApplications(w, r, apps, purged)
}
