// Package scoring computes aggregate scores and relative priority buckets
// for job postings. All functions are pure: they read their inputs, return a
// result, and never touch persistence.
package scoring

import "math"

const (
	// MinRating and MaxRating bound a single user rating.
	MinRating = 1
	MaxRating = 5
)

// Aggregate collapses a list of optional 1-5 ratings into one representative
// score in 0-5. Unrated entries (nil) are excluded from both numerator and
// denominator rather than counting as zero. Returns 0 when nothing is rated.
// The mean is rounded half-up (3.5 → 4).
func Aggregate(ratings []*int) (int, error) {
	sum := 0
	count := 0
	for _, r := range ratings {
		if r == nil {
			continue
		}
		if *r < MinRating || *r > MaxRating {
			return 0, &ValidationError{Field: "rating", Value: *r}
		}
		sum += *r
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return int(math.Floor(float64(sum)/float64(count) + 0.5)), nil
}
