package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/credits"
)

// Ledger retrieves a user's credit ledger.
func (db *DB) Ledger(ctx context.Context, userID uuid.UUID) (credits.Ledger, error) {
	var l credits.Ledger
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, remaining, used FROM credit_ledgers WHERE user_id = $1`,
		userID,
	).Scan(&l.UserID, &l.Remaining, &l.Used)
	if err != nil {
		if err == pgx.ErrNoRows {
			return credits.Ledger{}, credits.ErrLedgerNotFound
		}
		return credits.Ledger{}, fmt.Errorf("failed to get ledger: %w", err)
	}
	return l, nil
}

// ConditionalDeduct moves amount credits from remaining to used in a single
// atomic update, conditioned on remaining still holding the observed value.
// Returns false without error when another request changed the balance first,
// which is the optimistic-concurrency guard the credit gate relies on.
func (db *DB) ConditionalDeduct(ctx context.Context, userID uuid.UUID, amount, expectedRemaining int) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE credit_ledgers
		 SET remaining = remaining - $2, used = used + $2, updated_at = NOW()
		 WHERE user_id = $1 AND remaining = $3 AND remaining >= $2`,
		userID, amount, expectedRemaining,
	)
	if err != nil {
		return false, fmt.Errorf("failed to deduct credits: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// EnsureLedger creates a ledger row for a user if one does not exist yet.
// New ledgers start with the given grant.
func (db *DB) EnsureLedger(ctx context.Context, userID uuid.UUID, initialGrant int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO credit_ledgers (user_id, remaining, used)
		 VALUES ($1, $2, 0)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, initialGrant,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure ledger: %w", err)
	}
	return nil
}
