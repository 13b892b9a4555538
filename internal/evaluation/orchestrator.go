// Package evaluation sequences the credit-gated AI workflows: gate →
// external call → result mapping → persistence → re-rank. It is the single
// place where posting scores and priorities are recomputed, so the
// "priority is a pure function of the scores" invariant is enforced here
// and nowhere else.
package evaluation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/credits"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/ingest"
	"github.com/jonathan/job-tracker/internal/scoring"
	"github.com/jonathan/job-tracker/internal/types"
)

// Store is the persistence surface the orchestrator needs.
type Store interface {
	GetPosting(ctx context.Context, userID, postingID uuid.UUID) (*types.JobPosting, error)
	ListPostings(ctx context.Context, userID uuid.UUID) ([]types.JobPosting, error)
	ListPostingScores(ctx context.Context, userID, excludePostingID uuid.UUID) ([]scoring.ScorePair, error)
	UpdatePostingScores(ctx context.Context, userID, postingID uuid.UUID, update *db.PostingScoreUpdate) (*types.JobPosting, error)
	UpdatePostingPriority(ctx context.Context, userID, postingID uuid.UUID, priority int, override bool) error
	UpdatePostingAnalysis(ctx context.Context, userID, postingID uuid.UUID, analysis *types.JobAnalysis) (*types.JobPosting, error)
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error)
	GetExperiencesByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]types.Experience, error)
}

// Gate admits paid operations. Implemented by credits.Gate.
type Gate interface {
	Request(ctx context.Context, userID uuid.UUID, op credits.Operation, amount int) (credits.Decision, error)
}

// Evaluator is the external AI collaborator. Implemented by llm.Evaluator.
type Evaluator interface {
	EvaluateFit(ctx context.Context, competencies []types.KeyCompetency, experiences []types.Experience, minYears int) (*types.FitEvaluation, error)
	AnalyzeJob(ctx context.Context, postingText string) (*types.JobAnalysis, error)
	GenerateResume(ctx context.Context, posting *types.JobPosting, experiences []types.Experience, language, format string) (*types.ResumeDraft, error)
}

// FetchFunc retrieves and extracts a posting URL. Defaults to
// ingest.FetchPosting.
type FetchFunc func(ctx context.Context, url string) (*ingest.Posting, error)

// Orchestrator wires the gate, the evaluator, and the store together.
type Orchestrator struct {
	store     Store
	gate      Gate
	evaluator Evaluator
	fetch     FetchFunc
	log       *zap.Logger
}

// New returns an orchestrator. fetch may be nil to use the default ingest
// pipeline.
func New(store Store, gate Gate, evaluator Evaluator, fetch FetchFunc, log *zap.Logger) *Orchestrator {
	if fetch == nil {
		fetch = func(ctx context.Context, url string) (*ingest.Posting, error) {
			return ingest.FetchPosting(ctx, url, nil)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{store: store, gate: gate, evaluator: evaluator, fetch: fetch, log: log}
}

// FitResult is the outcome of one evaluate-fit workflow.
type FitResult struct {
	Posting             *types.JobPosting         `json:"posting"`
	MinimumRequirements types.MinimumRequirements `json:"minimum_requirements"`
	Decision            credits.Decision          `json:"credit_decision"`
}

// EvaluateFit runs the hard-gated fit evaluation for one posting: score each
// of its key competencies against the user's experience bank, then refresh
// the aggregates and the priority bucket.
func (o *Orchestrator) EvaluateFit(ctx context.Context, userID, postingID uuid.UUID) (*FitResult, error) {
	posting, err := o.store.GetPosting(ctx, userID, postingID)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, ErrPostingNotFound
	}
	if len(posting.KeyCompetencies) == 0 {
		return nil, &PreconditionError{Reason: "posting has no key competencies; run analyze-job first"}
	}

	experiences, err := o.store.ListExperiences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(experiences) == 0 {
		return nil, &PreconditionError{Reason: "experience bank is empty"}
	}

	decision, err := o.gate.Request(ctx, userID, credits.OpEvaluateFit, credits.DefaultDeduction)
	if err != nil {
		// Gate rejections pass through unchanged: the caller needs to know
		// no credits were consumed.
		return nil, err
	}

	result, err := o.evaluator.EvaluateFit(ctx, posting.KeyCompetencies, experiences, posting.MinYearsOfExp)
	if err != nil {
		return nil, &ExternalCallError{Op: credits.OpEvaluateFit, Charged: decision.Charged, Err: err}
	}

	applyEvaluations(posting.KeyCompetencies, result.EvaluatedCompetencies)

	updated, err := o.persistScores(ctx, userID, posting, posting.CompanyCriteriaScores, posting.KeyCompetencies)
	if err != nil {
		return nil, err
	}

	o.log.Info("fit evaluation applied",
		zap.String("posting_id", postingID.String()),
		zap.Int("fit_score", updated.FitScore),
		zap.Int("priority", updated.Priority))

	return &FitResult{
		Posting:             updated,
		MinimumRequirements: result.MinimumRequirements,
		Decision:            decision,
	}, nil
}

// ResumeResult is the outcome of one generate-resume workflow.
type ResumeResult struct {
	Draft    *types.ResumeDraft `json:"draft"`
	Decision credits.Decision   `json:"credit_decision"`
}

// GenerateResume runs the soft-gated resume generation. The external call is
// cancellable through ctx; a cancelled call applies nothing, but the credit
// spend committed at admission stands.
func (o *Orchestrator) GenerateResume(ctx context.Context, userID, postingID uuid.UUID, req *types.GenerateResumeRequest) (*ResumeResult, error) {
	posting, err := o.store.GetPosting(ctx, userID, postingID)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, ErrPostingNotFound
	}

	ids := make([]uuid.UUID, 0, len(req.ExperienceIDs))
	for _, raw := range req.ExperienceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &PreconditionError{Reason: fmt.Sprintf("invalid experience id %q", raw)}
		}
		ids = append(ids, id)
	}

	experiences, err := o.store.GetExperiencesByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(experiences) == 0 {
		return nil, &PreconditionError{Reason: "no selected experiences found"}
	}

	decision, err := o.gate.Request(ctx, userID, credits.OpGenerateResume, credits.DefaultDeduction)
	if err != nil {
		return nil, err
	}

	draft, err := o.evaluator.GenerateResume(ctx, posting, experiences, req.Language, req.Format)
	if err != nil {
		return nil, &ExternalCallError{Op: credits.OpGenerateResume, Charged: decision.Charged, Err: err}
	}

	return &ResumeResult{Draft: draft, Decision: decision}, nil
}

// AnalysisResult is the outcome of one analyze-job workflow.
type AnalysisResult struct {
	Posting  *types.JobPosting `json:"posting"`
	Decision credits.Decision  `json:"credit_decision"`
}

// AnalyzeJob fetches a posting URL, runs the hard-gated AI extraction, and
// stores the extracted fields. Replacing the competency list clears any
// previous self-ratings, so the aggregates and priority are refreshed too.
func (o *Orchestrator) AnalyzeJob(ctx context.Context, userID, postingID uuid.UUID, url string) (*AnalysisResult, error) {
	posting, err := o.store.GetPosting(ctx, userID, postingID)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, ErrPostingNotFound
	}

	// Fetching the page is not the paid operation; do it before the gate so
	// a dead link never costs a credit.
	fetched, err := o.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if fetched.Text == "" {
		return nil, &PreconditionError{Reason: "posting page has no extractable text"}
	}

	decision, err := o.gate.Request(ctx, userID, credits.OpAnalyzeJob, credits.DefaultDeduction)
	if err != nil {
		return nil, err
	}

	analysis, err := o.evaluator.AnalyzeJob(ctx, fetched.Text)
	if err != nil {
		return nil, &ExternalCallError{Op: credits.OpAnalyzeJob, Charged: decision.Charged, Err: err}
	}

	updated, err := o.store.UpdatePostingAnalysis(ctx, userID, postingID, analysis)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostingNotFound
	}

	// The fresh competency list carries no self-ratings yet.
	updated, err = o.persistScores(ctx, userID, updated, updated.CompanyCriteriaScores, updated.KeyCompetencies)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{Posting: updated, Decision: decision}, nil
}

// ApplyCriteriaRatings replaces a posting's company-criteria ratings and
// refreshes its aggregates and priority.
func (o *Orchestrator) ApplyCriteriaRatings(ctx context.Context, userID, postingID uuid.UUID, criteria []types.CriterionScore) (*types.JobPosting, error) {
	posting, err := o.store.GetPosting(ctx, userID, postingID)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, ErrPostingNotFound
	}

	return o.persistScores(ctx, userID, posting, criteria, posting.KeyCompetencies)
}

// ApplyCompetencyRatings replaces a posting's competency self-ratings and
// refreshes its aggregates and priority.
func (o *Orchestrator) ApplyCompetencyRatings(ctx context.Context, userID, postingID uuid.UUID, competencies []types.KeyCompetency) (*types.JobPosting, error) {
	posting, err := o.store.GetPosting(ctx, userID, postingID)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, ErrPostingNotFound
	}

	return o.persistScores(ctx, userID, posting, posting.CompanyCriteriaScores, competencies)
}

// OverridePriority pins a manual bucket on a posting. The pin survives until
// the next score change, which clears it and recomputes.
func (o *Orchestrator) OverridePriority(ctx context.Context, userID, postingID uuid.UUID, priority int) error {
	return o.store.UpdatePostingPriority(ctx, userID, postingID, priority, true)
}

// RecomputeUserPriorities re-ranks every posting of a user against the
// current population. Manual overrides are left alone. Used after bulk
// mutations (e.g. deleting a posting shifts everyone's percentile).
func (o *Orchestrator) RecomputeUserPriorities(ctx context.Context, userID uuid.UUID) error {
	postings, err := o.store.ListPostings(ctx, userID)
	if err != nil {
		return err
	}

	pairs := make([]scoring.ScorePair, len(postings))
	for i, p := range postings {
		pairs[i] = scoring.ScorePair{CompanyScore: p.CompanyScore, FitScore: p.FitScore}
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range postings {
		if p.PriorityOverride {
			continue
		}

		others := make([]scoring.ScorePair, 0, len(pairs)-1)
		others = append(others, pairs[:i]...)
		others = append(others, pairs[i+1:]...)

		priority, err := scoring.ComputePriority(p.CompanyScore, p.FitScore, others)
		if err != nil {
			return err
		}
		if priority == p.Priority {
			continue
		}

		postingID := p.ID
		g.Go(func() error {
			return o.store.UpdatePostingPriority(gCtx, userID, postingID, priority, false)
		})
	}

	return g.Wait()
}

// persistScores recomputes both aggregates and the priority bucket from the
// given lists and writes everything in one update.
func (o *Orchestrator) persistScores(ctx context.Context, userID uuid.UUID, posting *types.JobPosting, criteria []types.CriterionScore, competencies []types.KeyCompetency) (*types.JobPosting, error) {
	candidate := *posting
	candidate.CompanyCriteriaScores = criteria
	candidate.KeyCompetencies = competencies

	companyScore, err := scoring.Aggregate(candidate.CriteriaRatings())
	if err != nil {
		return nil, err
	}
	fitScore, err := scoring.Aggregate(candidate.CompetencyRatings())
	if err != nil {
		return nil, err
	}

	population, err := o.store.ListPostingScores(ctx, userID, posting.ID)
	if err != nil {
		return nil, err
	}

	priority, err := scoring.ComputePriority(companyScore, fitScore, population)
	if err != nil {
		return nil, err
	}

	updated, err := o.store.UpdatePostingScores(ctx, userID, posting.ID, &db.PostingScoreUpdate{
		CompanyScore: companyScore,
		FitScore:     fitScore,
		Priority:     priority,
		Criteria:     criteria,
		Competencies: competencies,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostingNotFound
	}
	return updated, nil
}

// applyEvaluations writes the evaluator's scores back onto the posting's
// competencies, matching by title.
func applyEvaluations(competencies []types.KeyCompetency, evaluated []types.EvaluatedCompetency) {
	byTitle := make(map[string]types.EvaluatedCompetency, len(evaluated))
	for _, e := range evaluated {
		byTitle[e.Title] = e
	}

	for i := range competencies {
		if e, ok := byTitle[competencies[i].Title]; ok {
			score := e.Score
			competencies[i].Score = &score
			competencies[i].Evaluation = e.Evaluation
		}
	}
}
