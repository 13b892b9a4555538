package evaluation

import (
	"errors"
	"fmt"

	"github.com/jonathan/job-tracker/internal/credits"
)

// ErrPostingNotFound means the posting does not exist or belongs to another
// user.
var ErrPostingNotFound = errors.New("posting not found")

// PreconditionError means a workflow's required inputs were missing. Raised
// before the gate runs, so no credits were consumed.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}

// ExternalCallError means the external evaluator failed (or was cancelled)
// after gate admission. Charged reports whether the admission deducted a
// credit; deductions are never refunded on failure, so callers must tell
// "you were charged but the operation failed" apart from "you were not
// charged".
type ExternalCallError struct {
	Op      credits.Operation
	Charged bool
	Err     error
}

func (e *ExternalCallError) Error() string {
	if e.Charged {
		return fmt.Sprintf("%s failed after credits were deducted (not refunded): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed, no credits were deducted: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}
