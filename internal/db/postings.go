package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/scoring"
	"github.com/jonathan/job-tracker/internal/types"
)

const postingColumns = `id, user_id, url, company, role_title, status,
	       company_score, fit_score, priority, priority_override,
	       company_criteria_scores, key_competencies, min_years_of_experience,
	       notes, created_at, updated_at`

// scanPosting scans one posting row, decoding the JSONB score lists.
func scanPosting(row pgx.Row) (*types.JobPosting, error) {
	var p types.JobPosting
	var criteriaJSON, competenciesJSON []byte

	err := row.Scan(&p.ID, &p.UserID, &p.URL, &p.Company, &p.RoleTitle, &p.Status,
		&p.CompanyScore, &p.FitScore, &p.Priority, &p.PriorityOverride,
		&criteriaJSON, &competenciesJSON, &p.MinYearsOfExp,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if criteriaJSON != nil {
		if err := json.Unmarshal(criteriaJSON, &p.CompanyCriteriaScores); err != nil {
			return nil, fmt.Errorf("failed to decode criteria scores for posting %s: %w", p.ID, err)
		}
	}
	if competenciesJSON != nil {
		if err := json.Unmarshal(competenciesJSON, &p.KeyCompetencies); err != nil {
			return nil, fmt.Errorf("failed to decode key competencies for posting %s: %w", p.ID, err)
		}
	}

	return &p, nil
}

// CreatePosting inserts a new posting for a user and returns it.
func (db *DB) CreatePosting(ctx context.Context, userID uuid.UUID, input *types.CreatePostingRequest, initialStatus string) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (user_id, url, company, role_title, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+postingColumns,
		userID, input.URL, input.Company, input.RoleTitle, initialStatus, input.Notes,
	)
	p, err := scanPosting(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create posting: %w", err)
	}
	return p, nil
}

// GetPosting retrieves a posting by ID, validating ownership.
func (db *DB) GetPosting(ctx context.Context, userID, postingID uuid.UUID) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+postingColumns+`
		 FROM job_postings WHERE id = $1 AND user_id = $2`,
		postingID, userID,
	)
	p, err := scanPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return p, nil
}

// ListPostings retrieves all postings for a user, best priority first, then
// newest first within a bucket. Unscored postings (priority 0) sort last.
func (db *DB) ListPostings(ctx context.Context, userID uuid.UUID) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+postingColumns+`
		 FROM job_postings
		 WHERE user_id = $1
		 ORDER BY CASE WHEN priority = 0 THEN 6 ELSE priority END ASC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []types.JobPosting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, *p)
	}
	return postings, nil
}

// ListPostingScores retrieves the aggregate score pairs for all of a user's
// postings except the one being recomputed. This is the population snapshot
// the priority ranker compares against.
func (db *DB) ListPostingScores(ctx context.Context, userID, excludePostingID uuid.UUID) ([]scoring.ScorePair, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT company_score, fit_score
		 FROM job_postings
		 WHERE user_id = $1 AND id != $2`,
		userID, excludePostingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posting scores: %w", err)
	}
	defer rows.Close()

	var pairs []scoring.ScorePair
	for rows.Next() {
		var pair scoring.ScorePair
		if err := rows.Scan(&pair.CompanyScore, &pair.FitScore); err != nil {
			return nil, fmt.Errorf("failed to scan posting scores: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// UpdatePostingScores writes the criteria/competency lists together with the
// freshly computed aggregates and priority bucket. Passing nil for a list
// leaves that column untouched.
func (db *DB) UpdatePostingScores(ctx context.Context, userID, postingID uuid.UUID, update *PostingScoreUpdate) (*types.JobPosting, error) {
	var criteriaJSON, competenciesJSON []byte
	var err error
	if update.Criteria != nil {
		criteriaJSON, err = json.Marshal(update.Criteria)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal criteria: %w", err)
		}
	}
	if update.Competencies != nil {
		competenciesJSON, err = json.Marshal(update.Competencies)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal competencies: %w", err)
		}
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE job_postings SET
		     company_score = $3,
		     fit_score = $4,
		     priority = $5,
		     priority_override = FALSE,
		     company_criteria_scores = COALESCE($6, company_criteria_scores),
		     key_competencies = COALESCE($7, key_competencies),
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+postingColumns,
		postingID, userID, update.CompanyScore, update.FitScore, update.Priority,
		criteriaJSON, competenciesJSON,
	)
	p, err := scanPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update posting scores: %w", err)
	}
	return p, nil
}

// PostingScoreUpdate carries the result of one score recomputation.
type PostingScoreUpdate struct {
	CompanyScore int
	FitScore     int
	Priority     int
	Criteria     []types.CriterionScore
	Competencies []types.KeyCompetency
}

// UpdatePostingPriority writes only the priority bucket. Used for bulk
// re-ranking and for manual overrides (override pins the bucket until the
// next score change).
func (db *DB) UpdatePostingPriority(ctx context.Context, userID, postingID uuid.UUID, priority int, override bool) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET priority = $3, priority_override = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		postingID, userID, priority, override,
	)
	if err != nil {
		return fmt.Errorf("failed to update posting priority: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("posting not found: %s", postingID)
	}
	return nil
}

// UpdatePostingStatus moves a posting to a new application status.
func (db *DB) UpdatePostingStatus(ctx context.Context, userID, postingID uuid.UUID, newStatus string) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE job_postings SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+postingColumns,
		postingID, userID, newStatus,
	)
	p, err := scanPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update posting status: %w", err)
	}
	return p, nil
}

// UpdatePostingAnalysis stores the AI-extracted fields from analyze-job.
func (db *DB) UpdatePostingAnalysis(ctx context.Context, userID, postingID uuid.UUID, analysis *types.JobAnalysis) (*types.JobPosting, error) {
	competenciesJSON, err := json.Marshal(analysis.KeyCompetencies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal competencies: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE job_postings SET
		     company = COALESCE(NULLIF($3, ''), company),
		     role_title = COALESCE(NULLIF($4, ''), role_title),
		     key_competencies = $5,
		     min_years_of_experience = $6,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+postingColumns,
		postingID, userID, analysis.Company, analysis.RoleTitle, competenciesJSON, analysis.MinYearsOfExp,
	)
	p, err := scanPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update posting analysis: %w", err)
	}
	return p, nil
}

// DeletePosting removes a posting, validating ownership.
func (db *DB) DeletePosting(ctx context.Context, userID, postingID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM job_postings WHERE id = $1 AND user_id = $2`,
		postingID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("posting not found: %s", postingID)
	}
	return nil
}
