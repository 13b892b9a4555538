package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAggregate_EmptyList(t *testing.T) {
	score, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestAggregate_AllUnrated(t *testing.T) {
	score, err := Aggregate([]*int{nil, nil, nil})
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

// TestAggregate_SkipsUnratedEntries verifies unrated items are excluded from
// both numerator and denominator: [5, unrated, 3] averages 5 and 3 only.
func TestAggregate_SkipsUnratedEntries(t *testing.T) {
	score, err := Aggregate([]*int{intPtr(5), nil, intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 4, score)
}

func TestAggregate_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name    string
		ratings []*int
		want    int
	}{
		{"mean 3.5 rounds to 4", []*int{intPtr(3), intPtr(4)}, 4},
		{"mean 2.5 rounds to 3", []*int{intPtr(2), intPtr(3)}, 3},
		{"mean 2.33 rounds to 2", []*int{intPtr(2), intPtr(2), intPtr(3)}, 2},
		{"mean 2.67 rounds to 3", []*int{intPtr(2), intPtr(3), intPtr(3)}, 3},
		{"single rating", []*int{intPtr(1)}, 1},
		{"all max", []*int{intPtr(5), intPtr(5)}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Aggregate(tt.ratings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestAggregate_RejectsOutOfRangeRatings(t *testing.T) {
	tests := []struct {
		name   string
		rating int
	}{
		{"zero", 0},
		{"negative", -1},
		{"above max", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate([]*int{intPtr(tt.rating)})
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.rating, valErr.Value)
		})
	}
}
