package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/status"
	"github.com/jonathan/job-tracker/internal/types"
)

// ListPostingsResponse is the board payload: the user's postings ordered by
// priority bucket.
type ListPostingsResponse struct {
	Postings []types.JobPosting `json:"postings"`
	Count    int                `json:"count"`
	Cached   bool               `json:"cached"`
}

// handleCreatePosting tracks a new posting for a user.
func (s *Server) handleCreatePosting(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	var req types.CreatePostingRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	posting, err := s.db.CreatePosting(r.Context(), userID, &req, string(status.StatusSaved))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusCreated, posting)
}

// handleListPostings returns the user's board, served from the cache when a
// fresh copy exists.
func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	if postings, hit := s.board.Get(r.Context(), userID); hit {
		s.jsonResponse(w, http.StatusOK, ListPostingsResponse{
			Postings: postings,
			Count:    len(postings),
			Cached:   true,
		})
		return
	}

	postings, err := s.db.ListPostings(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.board.Set(r.Context(), userID, postings)
	s.jsonResponse(w, http.StatusOK, ListPostingsResponse{
		Postings: postings,
		Count:    len(postings),
	})
}

// handleGetPosting retrieves a single posting.
func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	posting, err := s.db.GetPosting(r.Context(), userID, postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}

// handleUpdateStatus moves a posting along the application state machine.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	var req types.UpdateStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	target, err := status.Parse(req.Status)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	posting, err := s.db.GetPosting(r.Context(), userID, postingID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	current, err := status.Parse(posting.Status)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Stored status is invalid: "+err.Error())
		return
	}
	if !status.IsTransitionAllowed(current, target) {
		s.errorResponse(w, http.StatusConflict,
			"Cannot move posting from "+string(current)+" to "+string(target))
		return
	}

	updated, err := s.db.UpdatePostingStatus(r.Context(), userID, postingID, string(target))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	s.board.Invalidate(r.Context(), userID)
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeletePosting removes a posting and re-ranks the remainder, since
// deleting a posting shifts every other posting's percentile.
func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "posting ID")
	if !ok {
		return
	}

	if err := s.db.DeletePosting(r.Context(), userID, postingID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	if err := s.workflows.RecomputeUserPriorities(r.Context(), userID); err != nil {
		s.workflowError(w, err)
		return
	}

	s.board.Invalidate(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}
