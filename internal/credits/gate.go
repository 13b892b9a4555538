// Package credits implements the admission gate for credit-consuming AI
// operations. A deduction happens at most once per admitted request and is
// committed through an atomic compare-and-swap against the persisted ledger,
// never as a read-modify-write in application memory.
package credits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDeduction is the credit cost of one paid operation.
const DefaultDeduction = 1

// Operation identifies a paid operation kind.
type Operation string

const (
	// OpEvaluateFit scores the user's competencies against a posting.
	OpEvaluateFit Operation = "evaluate_fit"
	// OpAnalyzeJob extracts structured fields from a posting.
	OpAnalyzeJob Operation = "analyze_job"
	// OpGenerateResume produces a tailored resume.
	OpGenerateResume Operation = "generate_resume"
)

// Policy controls whether an operation is rejected when credits run out.
type Policy int

const (
	// PolicyHard rejects the operation when the ledger cannot cover it.
	PolicyHard Policy = iota
	// PolicySoft always admits the operation; usage is recorded when the
	// ledger can cover it and skipped otherwise.
	PolicySoft
)

// policies maps each operation to its gating policy. Resume generation is
// deliberately soft: the product records usage but never blocks the user
// mid-application. Fit evaluation and job analysis hard-fail.
var policies = map[Operation]Policy{
	OpEvaluateFit:    PolicyHard,
	OpAnalyzeJob:     PolicyHard,
	OpGenerateResume: PolicySoft,
}

// PolicyFor returns the gating policy for an operation. Unknown operations
// default to hard gating.
func PolicyFor(op Operation) Policy {
	if p, ok := policies[op]; ok {
		return p
	}
	return PolicyHard
}

// Ledger is one user's credit balance. Remaining + Used is conserved across
// any single deduction.
type Ledger struct {
	UserID    uuid.UUID `json:"user_id"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
}

// Store is the persistence surface the gate needs. ConditionalDeduct must be
// a single atomic update conditioned on the observed remaining balance and
// report whether any row changed.
type Store interface {
	Ledger(ctx context.Context, userID uuid.UUID) (Ledger, error)
	ConditionalDeduct(ctx context.Context, userID uuid.UUID, amount, expectedRemaining int) (bool, error)
}

// Decision reports the outcome of an admitted gate request.
type Decision struct {
	Operation Operation `json:"operation"`
	Charged   bool      `json:"charged"`
	Amount    int       `json:"amount"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
}

// Gate admits or rejects paid operations against a user's ledger.
type Gate struct {
	store Store
	log   *zap.Logger
}

// NewGate returns a gate backed by the given ledger store.
func NewGate(store Store, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{store: store, log: log}
}

// Request runs the admission protocol for one paid operation. Amount <= 0
// means DefaultDeduction.
//
// Hard-gated operations return ErrInsufficientCredits when the balance cannot
// cover the deduction and ErrConcurrentModification when another request won
// the race; neither mutates the ledger, and the gate never retries on its
// own. Soft-gated operations always admit: the deduction is recorded when it
// can be committed and skipped (Charged=false) otherwise.
func (g *Gate) Request(ctx context.Context, userID uuid.UUID, op Operation, amount int) (Decision, error) {
	if amount <= 0 {
		amount = DefaultDeduction
	}

	ledger, err := g.store.Ledger(ctx, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read ledger: %w", err)
	}

	policy := PolicyFor(op)

	if ledger.Remaining < amount {
		if policy == PolicyHard {
			return Decision{}, fmt.Errorf("operation %s needs %d credits, %d remaining: %w",
				op, amount, ledger.Remaining, ErrInsufficientCredits)
		}
		g.log.Warn("admitting soft-gated operation without charge",
			zap.String("operation", string(op)),
			zap.String("user_id", userID.String()),
			zap.Int("remaining", ledger.Remaining))
		return Decision{
			Operation: op,
			Charged:   false,
			Amount:    0,
			Remaining: ledger.Remaining,
			Used:      ledger.Used,
		}, nil
	}

	deducted, err := g.store.ConditionalDeduct(ctx, userID, amount, ledger.Remaining)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to deduct credits: %w", err)
	}
	if !deducted {
		if policy == PolicyHard {
			return Decision{}, fmt.Errorf("operation %s lost the deduction race: %w",
				op, ErrConcurrentModification)
		}
		g.log.Warn("soft-gated operation lost deduction race, admitting without charge",
			zap.String("operation", string(op)),
			zap.String("user_id", userID.String()))
		return Decision{
			Operation: op,
			Charged:   false,
			Amount:    0,
			Remaining: ledger.Remaining,
			Used:      ledger.Used,
		}, nil
	}

	g.log.Debug("credits deducted",
		zap.String("operation", string(op)),
		zap.String("user_id", userID.String()),
		zap.Int("amount", amount),
		zap.Int("remaining", ledger.Remaining-amount))

	return Decision{
		Operation: op,
		Charged:   true,
		Amount:    amount,
		Remaining: ledger.Remaining - amount,
		Used:      ledger.Used + amount,
	}, nil
}
