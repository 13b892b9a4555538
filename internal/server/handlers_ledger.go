package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/job-tracker/internal/credits"
)

// handleGetLedger returns the user's credit balance.
func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	ledger, err := s.db.Ledger(r.Context(), userID)
	if err != nil {
		if errors.Is(err, credits.ErrLedgerNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Credit ledger not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ledger)
}
