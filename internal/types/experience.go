package types

import (
	"time"

	"github.com/google/uuid"
)

// Experience is one entry in a user's career experience bank, used as raw
// material for fit evaluation and resume generation.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"` // "present" for current roles
	Skills      []string  `json:"skills,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// YearsOfExperience returns a rough total of years covered by the given
// experiences, counting "present" entries up to now. Overlapping ranges are
// counted independently; the evaluator only needs an order-of-magnitude
// signal for minimum-requirement checks.
func YearsOfExperience(experiences []Experience, now time.Time) float64 {
	total := 0.0
	for _, exp := range experiences {
		start, err := time.Parse("2006-01", exp.StartDate)
		if err != nil {
			continue
		}
		end := now
		if exp.EndDate != "" && exp.EndDate != "present" {
			if parsed, err := time.Parse("2006-01", exp.EndDate); err == nil {
				end = parsed
			}
		}
		if end.After(start) {
			total += end.Sub(start).Hours() / (24 * 365)
		}
	}
	return total
}
