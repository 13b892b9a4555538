package types

import (
	"github.com/go-playground/validator/v10"
)

// CreatePostingRequest represents the request to track a new job posting.
type CreatePostingRequest struct {
	URL       string `json:"url,omitempty" validate:"omitempty,url"`
	Company   string `json:"company" validate:"required,min=1"`
	RoleTitle string `json:"role_title" validate:"required,min=1"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateStatusRequest moves a posting to a new application status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RateCriteriaRequest replaces the company-criteria ratings of a posting.
type RateCriteriaRequest struct {
	Criteria []CriterionScore `json:"criteria" validate:"required,min=1,dive"`
}

// RateCompetenciesRequest replaces the competency self-ratings of a posting.
type RateCompetenciesRequest struct {
	Competencies []KeyCompetency `json:"competencies" validate:"required,min=1,dive"`
}

// OverridePriorityRequest pins a manual priority bucket on a posting.
// The override is kept until the next score change clears it.
type OverridePriorityRequest struct {
	Priority int `json:"priority" validate:"min=1,max=5"`
}

// GenerateResumeRequest asks for a tailored resume for a posting.
type GenerateResumeRequest struct {
	ExperienceIDs []string `json:"experience_ids" validate:"required,min=1,dive,uuid"`
	Language      string   `json:"language,omitempty"`
	Format        string   `json:"format,omitempty" validate:"omitempty,oneof=plain markdown"`
}

// AnalyzeJobRequest asks for AI extraction of a posting from its URL.
type AnalyzeJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// CreateExperienceRequest adds one entry to the user's experience bank.
type CreateExperienceRequest struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Company     string   `json:"company,omitempty"`
	Description string   `json:"description" validate:"required,min=1"`
	StartDate   string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01"`
	EndDate     string   `json:"end_date,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

var validate = validator.New()

// Validate validates the CreatePostingRequest using the validator.
func (r *CreatePostingRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RateCriteriaRequest using the validator.
func (r *RateCriteriaRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RateCompetenciesRequest using the validator.
func (r *RateCompetenciesRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the OverridePriorityRequest using the validator.
func (r *OverridePriorityRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the GenerateResumeRequest using the validator.
func (r *GenerateResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnalyzeJobRequest using the validator.
func (r *AnalyzeJobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CreateExperienceRequest using the validator.
func (r *CreateExperienceRequest) Validate() error {
	return validate.Struct(r)
}
