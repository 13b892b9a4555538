package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/types"
)

// handleEvaluateFit runs the hard-gated fit evaluation for one posting.
func (s *Server) handleEvaluateFit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	result, err := s.workflows.EvaluateFit(r.Context(), userID, postingID)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeJob fetches a posting URL and runs the hard-gated extraction.
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	var req types.AnalyzeJobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := s.workflows.AnalyzeJob(r.Context(), userID, postingID, req.URL)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateResume runs the soft-gated resume generation. The call is
// cancellable through the request context; a client disconnect abandons the
// draft but not the credit spend.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	var req types.GenerateResumeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := s.workflows.GenerateResume(r.Context(), userID, postingID, &req)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
