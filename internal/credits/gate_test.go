package credits

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ledger store with the same compare-and-swap
// semantics as the SQL implementation.
type memStore struct {
	mu      sync.Mutex
	ledgers map[uuid.UUID]Ledger
}

func newMemStore() *memStore {
	return &memStore{ledgers: make(map[uuid.UUID]Ledger)}
}

func (s *memStore) put(l Ledger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[l.UserID] = l
}

func (s *memStore) Ledger(_ context.Context, userID uuid.UUID) (Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[userID]
	if !ok {
		return Ledger{}, ErrLedgerNotFound
	}
	return l, nil
}

func (s *memStore) ConditionalDeduct(_ context.Context, userID uuid.UUID, amount, expectedRemaining int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[userID]
	if !ok || l.Remaining != expectedRemaining {
		return false, nil
	}
	l.Remaining -= amount
	l.Used += amount
	s.ledgers[userID] = l
	return true, nil
}

func TestGate_AdmitsAndDeductsOnce(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 5, Used: 0})

	gate := NewGate(store, nil)
	decision, err := gate.Request(context.Background(), userID, OpEvaluateFit, 1)
	require.NoError(t, err)

	assert.True(t, decision.Charged)
	assert.Equal(t, 1, decision.Amount)
	assert.Equal(t, 4, decision.Remaining)
	assert.Equal(t, 1, decision.Used)

	ledger, err := store.Ledger(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 4, ledger.Remaining)
	assert.Equal(t, 1, ledger.Used)
}

func TestGate_DefaultsAmountToOne(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 2, Used: 0})

	gate := NewGate(store, nil)
	decision, err := gate.Request(context.Background(), userID, OpAnalyzeJob, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, decision.Amount)
}

func TestGate_HardPolicyRejectsInsufficientCredits(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 0, Used: 10})

	gate := NewGate(store, nil)
	_, err := gate.Request(context.Background(), userID, OpEvaluateFit, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	// No mutation on rejection.
	ledger, err := store.Ledger(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Remaining)
	assert.Equal(t, 10, ledger.Used)
}

func TestGate_SoftPolicyAdmitsWithoutCharge(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 0, Used: 10})

	gate := NewGate(store, nil)
	decision, err := gate.Request(context.Background(), userID, OpGenerateResume, 1)
	require.NoError(t, err)

	assert.False(t, decision.Charged)
	assert.Equal(t, 0, decision.Amount)

	ledger, err := store.Ledger(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Remaining)
	assert.Equal(t, 10, ledger.Used)
}

func TestGate_SoftPolicyChargesWhenCreditsAvailable(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 3, Used: 0})

	gate := NewGate(store, nil)
	decision, err := gate.Request(context.Background(), userID, OpGenerateResume, 1)
	require.NoError(t, err)
	assert.True(t, decision.Charged)
	assert.Equal(t, 2, decision.Remaining)
}

func TestGate_UnknownOperationDefaultsToHard(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 0, Used: 0})

	gate := NewGate(store, nil)
	_, err := gate.Request(context.Background(), userID, Operation("translate_posting"), 1)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestGate_MissingLedger(t *testing.T) {
	gate := NewGate(newMemStore(), nil)
	_, err := gate.Request(context.Background(), uuid.New(), OpEvaluateFit, 1)
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

// TestGate_LastCreditRace runs two requests racing on the last credit:
// exactly one wins, the loser sees ErrConcurrentModification or
// ErrInsufficientCredits depending on timing, and the final ledger is
// {remaining: 0, used: 10}.
func TestGate_LastCreditRace(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: 1, Used: 9})

	gate := NewGate(store, nil)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = gate.Request(context.Background(), userID, OpEvaluateFit, 1)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		if err == nil {
			admitted++
			continue
		}
		assert.True(t,
			errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrInsufficientCredits),
			"unexpected rejection reason: %v", err)
	}
	assert.Equal(t, 1, admitted)

	ledger, err := store.Ledger(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Remaining)
	assert.Equal(t, 10, ledger.Used)
}

// TestGate_CreditConservation hammers the gate with concurrent requests and
// verifies admissions never exceed the starting balance and the ledger total
// is conserved.
func TestGate_CreditConservation(t *testing.T) {
	const (
		startRemaining = 7
		startUsed      = 3
		requests       = 40
	)

	store := newMemStore()
	userID := uuid.New()
	store.put(Ledger{UserID: userID, Remaining: startRemaining, Used: startUsed})

	gate := NewGate(store, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := gate.Request(context.Background(), userID, OpEvaluateFit, 1)
			if err == nil && decision.Charged {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, admitted, startRemaining)

	ledger, err := store.Ledger(context.Background(), userID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ledger.Remaining, 0)
	assert.Equal(t, startRemaining+startUsed, ledger.Remaining+ledger.Used)
	assert.Equal(t, startUsed+admitted, ledger.Used)
}
