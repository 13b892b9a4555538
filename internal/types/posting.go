// Package types provides type definitions for structured data used throughout the job-tracker system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobPosting represents a tracked job opportunity with user-entered and
// AI-derived attributes.
type JobPosting struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	URL       string    `json:"url,omitempty"`
	Company   string    `json:"company"`
	RoleTitle string    `json:"role_title"`
	Status    string    `json:"status"`

	// CompanyScore and FitScore are aggregates over the rated criteria and
	// competencies below; 0 means not yet evaluated.
	CompanyScore int `json:"company_score"`
	FitScore     int `json:"fit_score"`

	// Priority is the 1 (best) to 5 (worst) bucket relative to the user's
	// other postings, or 0 while unscored. It is recomputed on every score
	// change unless the user has pinned a manual override.
	Priority         int  `json:"priority"`
	PriorityOverride bool `json:"priority_override"`

	CompanyCriteriaScores []CriterionScore `json:"company_criteria_scores,omitempty"`
	KeyCompetencies       []KeyCompetency  `json:"key_competencies,omitempty"`

	// MinYearsOfExp is the experience floor stated by the posting, as
	// extracted by analyze-job. 0 means no stated minimum.
	MinYearsOfExp int `json:"min_years_of_experience,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CriterionScore is a per-posting user rating against a criterion inherited
// from the active career goal. Weight (1-5) indicates importance for display
// and sorting only; it does not enter the aggregate.
type CriterionScore struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Score  *int   `json:"score,omitempty"`
}

// KeyCompetency is an AI-extracted competency with an optional user
// self-rating and an optional AI-written evaluation.
type KeyCompetency struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Score       *int   `json:"score,omitempty"`
	Evaluation  string `json:"evaluation,omitempty"`
}

// CriteriaRatings projects the optional ratings out of the criteria list for
// aggregation.
func (p *JobPosting) CriteriaRatings() []*int {
	ratings := make([]*int, len(p.CompanyCriteriaScores))
	for i := range p.CompanyCriteriaScores {
		ratings[i] = p.CompanyCriteriaScores[i].Score
	}
	return ratings
}

// CompetencyRatings projects the optional self-ratings out of the competency
// list for aggregation.
func (p *JobPosting) CompetencyRatings() []*int {
	ratings := make([]*int, len(p.KeyCompetencies))
	for i := range p.KeyCompetencies {
		ratings[i] = p.KeyCompetencies[i].Score
	}
	return ratings
}
