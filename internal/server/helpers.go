package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/credits"
	"github.com/jonathan/job-tracker/internal/evaluation"
	"github.com/jonathan/job-tracker/internal/scoring"
)

// pathUUID parses a UUID path segment, writing a 400 response on failure.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, segment, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(segment))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst, writing a 400 response on
// failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// workflowError maps orchestration and gating errors onto HTTP responses.
//
// Post-admission failures get a distinct body shape: credits_charged tells
// the client whether the failed call consumed a credit, since deductions are
// never refunded.
func (s *Server) workflowError(w http.ResponseWriter, err error) {
	var external *evaluation.ExternalCallError
	if errors.As(err, &external) {
		s.jsonResponse(w, http.StatusBadGateway, map[string]any{
			"error":           external.Error(),
			"operation":       string(external.Op),
			"credits_charged": external.Charged,
		})
		return
	}

	var precondition *evaluation.PreconditionError
	switch {
	case errors.Is(err, evaluation.ErrPostingNotFound):
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
	case errors.As(err, &precondition):
		s.errorResponse(w, http.StatusUnprocessableEntity, precondition.Reason)
	case errors.Is(err, credits.ErrInsufficientCredits):
		s.errorResponse(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, credits.ErrConcurrentModification):
		s.errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, credits.ErrLedgerNotFound):
		s.errorResponse(w, http.StatusNotFound, "Credit ledger not found")
	default:
		var validation *scoring.ValidationError
		if errors.As(err, &validation) {
			s.errorResponse(w, http.StatusBadRequest, validation.Error())
			return
		}
		s.log.Error("workflow failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Internal error: "+err.Error())
	}
}
