package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, raw := range []string{"SAVED", "APPLIED", "INTERVIEW", "OFFER", "ACCEPTED", "REJECTED"} {
		st, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, Status(raw), st)
	}

	_, err := Parse("GHOSTED")
	assert.Error(t, err)

	_, err = Parse("applied") // case sensitive, mirrors the DB enum
	assert.Error(t, err)
}

func TestIsTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusSaved, StatusApplied, true},
		{StatusSaved, StatusRejected, true},
		{StatusSaved, StatusInterview, false}, // no skipping stages
		{StatusApplied, StatusInterview, true},
		{StatusApplied, StatusSaved, false}, // no moving backwards
		{StatusInterview, StatusOffer, true},
		{StatusOffer, StatusAccepted, true},
		{StatusOffer, StatusApplied, false},
		{StatusAccepted, StatusRejected, false}, // terminal
		{StatusRejected, StatusSaved, false},    // terminal
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTransitionAllowed(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusAccepted))
	assert.True(t, IsTerminal(StatusRejected))
	assert.False(t, IsTerminal(StatusSaved))
	assert.False(t, IsTerminal(StatusOffer))
}
