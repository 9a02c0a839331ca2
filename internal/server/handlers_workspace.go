package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

type jobDescriptionRequest struct {
	JobDescription string `json:"jobDescription"`
}

type importRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=fr en"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type designRequest struct {
	Design types.DesignSettings `json:"design"`
}

type saveResponse struct {
	Application  types.SavedApplication   `json:"application"`
	Applications []types.SavedApplication `json:"applications"`
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Workspace.Snapshot())
}

func (s *Server) handleSetJobDescription(w http.ResponseWriter, r *http.Request) {
	var req jobDescriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	snap, err := s.session.Workspace.SetJobDescription(r.Context(), req.JobDescription)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleImportJobDescription fetches a posting and uses its text as the job
// description.
func (s *Server) handleImportJobDescription(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	if s.session.Workspace.Snapshot().Locked {
		s.errorFrom(w, r, workspace.ErrJobDescriptionLocked)
		return
	}

	res, err := s.importer.FromURL(r.Context(), req.URL)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	snap, err := s.session.Workspace.SetJobDescription(r.Context(), res.Text)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	lang, ok := types.ParseLanguage(req.Language)
	if !ok {
		s.errorFrom(w, r, &ErrValidation{Field: "language", Message: "must be fr or en"})
		return
	}
	s.session.Workspace.SetLanguage(lang)
	s.jsonResponse(w, http.StatusOK, s.session.Workspace.Snapshot())
}

// handleChat runs one full turn and answers with the resolved workspace.
// The turn outlives a disconnected client.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	snap, err := s.session.Workspace.Send(context.WithoutCancel(r.Context()), req.Message)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleChatStream sends a "pending" event with the user message appended,
// then a "resolved" event once the generator has answered.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	turn, err := s.session.Workspace.Begin(ctx, req.Message)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		if turn != nil {
			if _, cerr := s.session.Workspace.Complete(ctx, turn, nil, err); cerr != nil {
				s.logger.Warn(ctx, "failed to complete aborted turn", "error", cerr)
			}
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if turn == nil {
		s.writeEvent(ctx, sse, "resolved", s.session.Workspace.Snapshot())
		return
	}
	s.writeEvent(ctx, sse, "pending", s.session.Workspace.Snapshot())

	result, genErr := s.session.Workspace.Generate(ctx, turn)
	snap, err := s.session.Workspace.Complete(ctx, turn, result, genErr)
	if errors.Is(err, workspace.ErrStaleTurn) {
		sse.WriteError(http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error(ctx, "failed to complete turn", "error", err)
		sse.WriteError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	s.writeEvent(ctx, sse, "resolved", snap)
}

// writeEvent logs write failures. The turn runs to completion either way.
func (s *Server) writeEvent(ctx context.Context, sse *SSEWriter, event string, data any) {
	if err := sse.WriteEvent(event, data); err != nil {
		s.logger.Warn(ctx, "failed to write stream event", "event", event, "error", err)
	}
}

func (s *Server) handleDesignPatch(w http.ResponseWriter, r *http.Request) {
	var req designRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	snap, err := s.session.Workspace.ApplyDesignPatch(r.Context(), req.Design)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleReset clears the workspace. It needs ?confirm=true.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Workspace.Reset(r.Context(), confirmed(r))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleSaveToHistory(w http.ResponseWriter, r *http.Request) {
	app, apps, err := s.session.Workspace.SaveToHistory(r.Context())
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, saveResponse{Application: app, Applications: apps})
}
