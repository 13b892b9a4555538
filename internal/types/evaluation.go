package types

// EvaluatedCompetency is one competency as returned by the external
// evaluator: the original title plus a 1-5 score and a short written
// evaluation.
type EvaluatedCompetency struct {
	Title      string `json:"title"`
	Score      int    `json:"score"`
	Evaluation string `json:"evaluation"`
}

// MinimumRequirements reports whether the candidate clears the posting's
// experience floor.
type MinimumRequirements struct {
	ExperienceMet bool   `json:"experience_met"`
	Reason        string `json:"reason"`
}

// FitEvaluation is the full result of one evaluate-fit call.
type FitEvaluation struct {
	EvaluatedCompetencies []EvaluatedCompetency `json:"evaluated_competencies"`
	MinimumRequirements   MinimumRequirements   `json:"minimum_requirements"`
}

// ResumeDraft is the result of one resume-generation call.
type ResumeDraft struct {
	Content    string `json:"content"`
	AIFeedback string `json:"ai_feedback,omitempty"`
}

// JobAnalysis is the structured extraction produced by the analyze-job
// operation from a posting's raw text.
type JobAnalysis struct {
	Company         string          `json:"company"`
	RoleTitle       string          `json:"role_title"`
	KeyCompetencies []KeyCompetency `json:"key_competencies"`
	MinYearsOfExp   int             `json:"min_years_of_experience,omitempty"`
}
