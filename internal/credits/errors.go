package credits

import "errors"

var (
	// ErrInsufficientCredits means the ledger cannot cover the requested
	// deduction. User-recoverable (plan upgrade or replenishment); callers
	// must not retry automatically.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrConcurrentModification means another request changed the ledger
	// between the read and the conditional deduction. Transient; safe to
	// retry the whole gate.
	ErrConcurrentModification = errors.New("ledger modified concurrently")

	// ErrLedgerNotFound means no ledger row exists for the user.
	ErrLedgerNotFound = errors.New("credit ledger not found")
)
