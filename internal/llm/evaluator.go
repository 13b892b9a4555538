package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/prompts"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
)

const promptFile = "evaluation.json"

// Evaluator wraps a Client with the three evaluation calls the tracker
// makes. Every response is validated against its JSON schema before being
// mapped onto domain types; a response that fails validation is treated the
// same as a transport error.
type Evaluator struct {
	client Client
}

// NewEvaluator returns an evaluator backed by the given client.
func NewEvaluator(client Client) *Evaluator {
	return &Evaluator{client: client}
}

// EvaluateFit scores the posting's key competencies against the candidate's
// experience bank.
func (e *Evaluator) EvaluateFit(ctx context.Context, competencies []types.KeyCompetency, experiences []types.Experience, minYears int) (*types.FitEvaluation, error) {
	template, err := prompts.Get(promptFile, "evaluate_fit")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Competencies": formatCompetencies(competencies),
		"Experiences":  formatExperiences(experiences),
		"Years":        fmt.Sprintf("%.1f", types.YearsOfExperience(experiences, time.Now())),
		"MinYears":     fmt.Sprintf("%d", minYears),
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("fit evaluation call failed: %w", err)
	}

	if err := schemas.Validate(schemas.FitEvaluation, []byte(raw)); err != nil {
		return nil, fmt.Errorf("fit evaluation response rejected: %w", err)
	}

	var result types.FitEvaluation
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse fit evaluation: %w", err)
	}
	return &result, nil
}

// AnalyzeJob extracts structured fields from a posting's raw text.
func (e *Evaluator) AnalyzeJob(ctx context.Context, postingText string) (*types.JobAnalysis, error) {
	template, err := prompts.Get(promptFile, "analyze_job")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"PostingText": postingText,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("job analysis call failed: %w", err)
	}

	if err := schemas.Validate(schemas.JobAnalysis, []byte(raw)); err != nil {
		return nil, fmt.Errorf("job analysis response rejected: %w", err)
	}

	var result types.JobAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse job analysis: %w", err)
	}
	return &result, nil
}

// GenerateResume produces a tailored resume draft from the selected
// experiences. Honors ctx cancellation: an aborted call returns ctx.Err()
// wrapped, with no partial draft.
func (e *Evaluator) GenerateResume(ctx context.Context, posting *types.JobPosting, experiences []types.Experience, language, format string) (*types.ResumeDraft, error) {
	template, err := prompts.Get(promptFile, "generate_resume")
	if err != nil {
		return nil, err
	}

	if language == "" {
		language = "English"
	}
	if format == "" {
		format = "markdown"
	}

	prompt := prompts.Format(template, map[string]string{
		"RoleTitle":    posting.RoleTitle,
		"Company":      posting.Company,
		"Competencies": formatCompetencies(posting.KeyCompetencies),
		"Experiences":  formatExperiences(experiences),
		"Language":     language,
		"Format":       format,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("resume generation call failed: %w", err)
	}

	if err := schemas.Validate(schemas.ResumeDraft, []byte(raw)); err != nil {
		return nil, fmt.Errorf("resume generation response rejected: %w", err)
	}

	var result types.ResumeDraft
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse resume draft: %w", err)
	}
	return &result, nil
}

// formatCompetencies renders competencies as a bulleted list for prompts.
func formatCompetencies(competencies []types.KeyCompetency) string {
	var sb strings.Builder
	for _, c := range competencies {
		sb.WriteString("- ")
		sb.WriteString(c.Title)
		if c.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(c.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatExperiences renders the experience bank as prompt input.
func formatExperiences(experiences []types.Experience) string {
	var sb strings.Builder
	for _, exp := range experiences {
		sb.WriteString(fmt.Sprintf("- %s", exp.Title))
		if exp.Company != "" {
			sb.WriteString(" at " + exp.Company)
		}
		if exp.StartDate != "" {
			sb.WriteString(fmt.Sprintf(" (%s to %s)", exp.StartDate, orPresent(exp.EndDate)))
		}
		sb.WriteString("\n  ")
		sb.WriteString(exp.Description)
		if len(exp.Skills) > 0 {
			sb.WriteString("\n  Skills: " + strings.Join(exp.Skills, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func orPresent(endDate string) string {
	if endDate == "" {
		return "present"
	}
	return endDate
}
