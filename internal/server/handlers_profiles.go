package server

import (
	"net/http"

	"github.com/jonathan/resume-assistant/internal/types"
)

type createProfileRequest struct {
	Name string `json:"name"`
}

// updateProfileRequest patches the fields that are present.
type updateProfileRequest struct {
	Name   *string `json:"name"`
	CV     *string `json:"cv"`
	Letter *string `json:"letter"`
}

type selectProfileRequest struct {
	ID string `json:"id" validate:"required"`
}

type profilesResponse struct {
	Profiles        []types.Profile `json:"profiles"`
	ActiveProfileID string          `json:"activeProfileId"`
}

func (s *Server) profilesResponse(r *http.Request) (profilesResponse, error) {
	list, err := s.session.Profiles.List(r.Context())
	if err != nil {
		return profilesResponse{}, err
	}
	active, err := s.session.Profiles.ActiveID(r.Context())
	if err != nil {
		return profilesResponse{}, err
	}
	return profilesResponse{Profiles: list, ActiveProfileID: active}, nil
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.profilesResponse(r)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCreateProfile adds a profile and makes it active.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	p, err := s.session.CreateProfile(r.Context(), req.Name)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, p)
}

func (s *Server) handleGetActiveProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.ActiveProfile(r.Context())
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	var req selectProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	if err := s.session.SelectProfile(r.Context(), req.ID); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	resp, err := s.profilesResponse(r)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	p, err := s.session.Profiles.Get(r.Context(), id)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	if p == nil {
		s.errorFrom(w, r, &ErrNotFound{Resource: "profile", ID: id})
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.CV != nil {
		p.CV = *req.CV
	}
	if req.Letter != nil {
		p.Letter = *req.Letter
	}
	if err := s.session.Profiles.Update(r.Context(), *p); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	updated, err := s.session.Profiles.Get(r.Context(), id)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	if updated == nil {
		s.errorFrom(w, r, &ErrNotFound{Resource: "profile", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteProfile removes a profile. The last profile is never removed;
// the response then lists it unchanged.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	remaining, active, err := s.session.DeleteProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profilesResponse{Profiles: remaining, ActiveProfileID: active})
}
