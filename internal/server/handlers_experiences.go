package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/types"
)

// handleListExperiences returns the user's experience bank.
func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	experiences, err := s.db.ListExperiences(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"experiences": experiences,
		"count":       len(experiences),
	})
}

// handleCreateExperience adds one entry to the user's experience bank.
func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	var req types.CreateExperienceRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	experience, err := s.db.CreateExperience(r.Context(), userID, &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, experience)
}

// handleDeleteExperience removes one experience.
func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	experienceID, ok := s.pathUUID(w, r, "id", "experience ID")
	if !ok {
		return
	}

	if err := s.db.DeleteExperience(r.Context(), userID, experienceID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
