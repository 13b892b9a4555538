package scoring

import "sort"

// Priority buckets: 1 is the most attractive posting, 5 the least.
// PriorityUnscored marks postings that have no scores at all.
const (
	PriorityUnscored = 0
	PriorityHighest  = 1
	PriorityLowest   = 5
)

// ScorePair holds the two aggregate scores of one posting. A zero value
// means "not yet evaluated" for that dimension.
type ScorePair struct {
	CompanyScore int
	FitScore     int
}

// Combined returns the mean of whichever scores in the pair are nonzero,
// or 0 when both are unset. This is the ranking key for priority buckets.
func (p ScorePair) Combined() float64 {
	sum := 0
	count := 0
	if p.CompanyScore != 0 {
		sum += p.CompanyScore
		count++
	}
	if p.FitScore != 0 {
		sum += p.FitScore
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// ComputePriority assigns a priority bucket to a posting given its two
// aggregate scores and the score pairs of the user's other postings.
//
// A posting with no scores stays at PriorityUnscored. When it is the only
// scored posting, an absolute bucket is assigned by threshold on its combined
// score. Otherwise the combined score is merged once into the other postings'
// nonzero combined scores and bucketed by percentile rank.
//
// Tie-break convention: the merged set is sorted descending with a stable
// sort and the rank is the first index holding the combined score, so tied
// postings all resolve to the best rank among their equals. Recomputing with
// the same population always yields the same bucket.
func ComputePriority(companyScore, fitScore int, others []ScorePair) (int, error) {
	if companyScore < 0 || companyScore > MaxRating {
		return 0, &ValidationError{Field: "companyScore", Value: companyScore}
	}
	if fitScore < 0 || fitScore > MaxRating {
		return 0, &ValidationError{Field: "fitScore", Value: fitScore}
	}

	combined := ScorePair{CompanyScore: companyScore, FitScore: fitScore}.Combined()
	if combined == 0 {
		return PriorityUnscored, nil
	}

	comparison := make([]float64, 0, len(others))
	for _, other := range others {
		if c := other.Combined(); c != 0 {
			comparison = append(comparison, c)
		}
	}

	if len(comparison) == 0 {
		return absoluteBucket(combined), nil
	}

	merged := append(comparison, combined)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i] > merged[j] })

	rank := 0
	for i, score := range merged {
		if score == combined {
			rank = i
			break
		}
	}

	return percentileBucket(float64(rank) / float64(len(merged))), nil
}

// absoluteBucket maps a combined score to a bucket when there is no
// population to rank against.
func absoluteBucket(combined float64) int {
	switch {
	case combined >= 4:
		return 1
	case combined >= 3:
		return 2
	case combined >= 2:
		return 3
	case combined >= 1:
		return 4
	default:
		return 5
	}
}

// percentileBucket maps a 0-based percentile rank to a bucket.
func percentileBucket(percentile float64) int {
	switch {
	case percentile < 0.2:
		return 1
	case percentile < 0.4:
		return 2
	case percentile < 0.6:
		return 3
	case percentile < 0.8:
		return 4
	default:
		return 5
	}
}
