package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestCriteriaRatings_PreservesOrderAndGaps(t *testing.T) {
	p := &JobPosting{
		CompanyCriteriaScores: []CriterionScore{
			{Name: "compensation", Weight: 5, Score: intPtr(4)},
			{Name: "remote policy", Weight: 3},
			{Name: "tech stack", Weight: 4, Score: intPtr(2)},
		},
	}

	ratings := p.CriteriaRatings()
	assert.Len(t, ratings, 3)
	assert.Equal(t, 4, *ratings[0])
	assert.Nil(t, ratings[1])
	assert.Equal(t, 2, *ratings[2])
}

func TestCompetencyRatings_PreservesOrderAndGaps(t *testing.T) {
	p := &JobPosting{
		KeyCompetencies: []KeyCompetency{
			{Title: "Go", Score: intPtr(5)},
			{Title: "Kubernetes"},
		},
	}

	ratings := p.CompetencyRatings()
	assert.Len(t, ratings, 2)
	assert.Equal(t, 5, *ratings[0])
	assert.Nil(t, ratings[1])
}
