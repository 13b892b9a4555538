package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/types"
)

// fakeClient returns canned responses and records the prompts it saw.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestEvaluateFit_MapsValidResponse(t *testing.T) {
	client := &fakeClient{response: `{
		"evaluated_competencies": [
			{"title": "Go", "score": 4, "evaluation": "several production services"},
			{"title": "Kubernetes", "score": 2, "evaluation": "limited exposure"}
		],
		"minimum_requirements": {"experience_met": true, "reason": "5 years over a 3 year floor"}
	}`}

	evaluator := NewEvaluator(client)
	result, err := evaluator.EvaluateFit(context.Background(),
		[]types.KeyCompetency{{Title: "Go"}, {Title: "Kubernetes"}},
		[]types.Experience{{Title: "Backend Engineer", Description: "Built Go services", StartDate: "2021-01", EndDate: "present"}},
		3,
	)
	require.NoError(t, err)

	require.Len(t, result.EvaluatedCompetencies, 2)
	assert.Equal(t, 4, result.EvaluatedCompetencies[0].Score)
	assert.Equal(t, "Kubernetes", result.EvaluatedCompetencies[1].Title)
	assert.True(t, result.MinimumRequirements.ExperienceMet)

	// The prompt must carry the competencies and experiences verbatim.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "- Go")
	assert.Contains(t, client.prompts[0], "Backend Engineer")
}

func TestEvaluateFit_RejectsSchemaViolation(t *testing.T) {
	client := &fakeClient{response: `{"evaluated_competencies": [{"title": "Go", "score": 11, "evaluation": ""}]}`}

	evaluator := NewEvaluator(client)
	_, err := evaluator.EvaluateFit(context.Background(),
		[]types.KeyCompetency{{Title: "Go"}},
		[]types.Experience{{Title: "Engineer", Description: "x"}},
		0,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestEvaluateFit_PropagatesClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}

	evaluator := NewEvaluator(client)
	_, err := evaluator.EvaluateFit(context.Background(),
		[]types.KeyCompetency{{Title: "Go"}},
		[]types.Experience{{Title: "Engineer", Description: "x"}},
		0,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAnalyzeJob_MapsValidResponse(t *testing.T) {
	client := &fakeClient{response: `{
		"company": "Acme",
		"role_title": "Platform Engineer",
		"key_competencies": [{"title": "Terraform", "description": "IaC ownership"}],
		"min_years_of_experience": 4
	}`}

	evaluator := NewEvaluator(client)
	result, err := evaluator.AnalyzeJob(context.Background(), "We are hiring a Platform Engineer...")
	require.NoError(t, err)

	assert.Equal(t, "Acme", result.Company)
	assert.Equal(t, 4, result.MinYearsOfExp)
	require.Len(t, result.KeyCompetencies, 1)
	assert.Equal(t, "Terraform", result.KeyCompetencies[0].Title)
}

func TestGenerateResume_MapsValidResponse(t *testing.T) {
	client := &fakeClient{response: `{"content": "# Jane Doe", "ai_feedback": "add metrics to the second bullet"}`}

	posting := &types.JobPosting{
		Company:   "Acme",
		RoleTitle: "Platform Engineer",
		KeyCompetencies: []types.KeyCompetency{
			{Title: "Terraform"},
		},
	}

	evaluator := NewEvaluator(client)
	draft, err := evaluator.GenerateResume(context.Background(), posting,
		[]types.Experience{{Title: "SRE", Description: "Ran prod infra", Skills: []string{"Terraform"}}},
		"", "")
	require.NoError(t, err)

	assert.Equal(t, "# Jane Doe", draft.Content)
	assert.Equal(t, "add metrics to the second bullet", draft.AIFeedback)

	// Defaults applied to language and format.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "English")
	assert.Contains(t, client.prompts[0], "markdown")
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
