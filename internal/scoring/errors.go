package scoring

import "fmt"

// ValidationError represents an out-of-range score passed to the scoring
// functions. Scores are validated upstream; hitting this error indicates a
// programming error at the call site, never user input.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scoring validation error: %s = %d is out of range", e.Field, e.Value)
}
