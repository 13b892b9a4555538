// Package status defines the application-status state machine for tracked
// job postings on the board.
//
// Valid status graph:
//
//	SAVED ──► APPLIED ──► INTERVIEW ──► OFFER ──► ACCEPTED
//	   │          │            │           │
//	   └──────────┴────────────┴───────────┴──► REJECTED
//
// ACCEPTED and REJECTED are terminal.
package status

import "fmt"

// Status is a posting's position on the board. Values mirror the
// posting_status enum in PostgreSQL.
type Status string

const (
	StatusSaved     Status = "SAVED"
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusSaved:     {StatusApplied, StatusRejected},
	StatusApplied:   {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {StatusAccepted, StatusRejected},
	// ACCEPTED and REJECTED are terminal, no outgoing transitions.
}

// Parse converts a raw string to a Status, returning an error for unknown
// values.
func Parse(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown posting status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
