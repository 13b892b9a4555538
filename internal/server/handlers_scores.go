package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/types"
)

// handleRateCriteria replaces a posting's company-criteria ratings. The
// aggregate and priority refresh happen inside the workflow.
func (s *Server) handleRateCriteria(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	var req types.RateCriteriaRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	posting, err := s.workflows.ApplyCriteriaRatings(r.Context(), userID, postingID, req.Criteria)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleRateCompetencies replaces a posting's competency self-ratings.
func (s *Server) handleRateCompetencies(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	var req types.RateCompetenciesRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	posting, err := s.workflows.ApplyCompetencyRatings(r.Context(), userID, postingID, req.Competencies)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleOverridePriority pins a manual priority bucket on a posting.
func (s *Server) handleOverridePriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	var req types.OverridePriorityRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := s.workflows.OverridePriority(r.Context(), userID, postingID, req.Priority); err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"priority": req.Priority,
		"override": true,
	})
}

// handleRecomputePriorities re-ranks all of a user's postings.
func (s *Server) handleRecomputePriorities(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	if err := s.workflows.RecomputeUserPriorities(r.Context(), userID); err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "recomputed"})
}
