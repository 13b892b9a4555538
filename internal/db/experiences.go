package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/types"
)

// scanExperience scans one experience row, decoding the JSONB skills list.
func scanExperience(row pgx.Row) (*types.Experience, error) {
	var e types.Experience
	var skillsJSON []byte
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Company, &e.Description,
		&e.StartDate, &e.EndDate, &skillsJSON, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if skillsJSON != nil {
		if err := json.Unmarshal(skillsJSON, &e.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills for experience %s: %w", e.ID, err)
		}
	}
	return &e, nil
}

// ListExperiences retrieves a user's full experience bank, newest first.
func (db *DB) ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, title, company, description, start_date, end_date, skills, created_at, updated_at
		 FROM experiences
		 WHERE user_id = $1
		 ORDER BY start_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var experiences []types.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, *e)
	}
	return experiences, nil
}

// CreateExperience adds one entry to a user's experience bank.
func (db *DB) CreateExperience(ctx context.Context, userID uuid.UUID, input *types.CreateExperienceRequest) (*types.Experience, error) {
	skillsJSON, err := json.Marshal(input.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	var e types.Experience
	err = db.pool.QueryRow(ctx,
		`INSERT INTO experiences (user_id, title, company, description, start_date, end_date, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, title, company, description, start_date, end_date, created_at, updated_at`,
		userID, input.Title, input.Company, input.Description, input.StartDate, input.EndDate, skillsJSON,
	).Scan(&e.ID, &e.UserID, &e.Title, &e.Company, &e.Description,
		&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	e.Skills = input.Skills
	return &e, nil
}

// DeleteExperience removes one experience, validating ownership.
func (db *DB) DeleteExperience(ctx context.Context, userID, experienceID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM experiences WHERE id = $1 AND user_id = $2`,
		experienceID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("experience not found: %s", experienceID)
	}
	return nil
}

// GetExperiencesByIDs retrieves the selected experiences, validating
// ownership. Missing IDs are silently absent from the result; callers decide
// whether that is an error.
func (db *DB) GetExperiencesByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, title, company, description, start_date, end_date, skills, created_at, updated_at
		 FROM experiences
		 WHERE user_id = $1 AND id = ANY($2)
		 ORDER BY start_date DESC`,
		userID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get experiences: %w", err)
	}
	defer rows.Close()

	var experiences []types.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, *e)
	}
	return experiences, nil
}
