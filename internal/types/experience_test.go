package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearsOfExperience(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		experiences []Experience
		want        float64
	}{
		{
			name: "closed range",
			experiences: []Experience{
				{StartDate: "2019-01", EndDate: "2021-01"},
			},
			want: 2.0,
		},
		{
			name: "present counts up to now",
			experiences: []Experience{
				{StartDate: "2024-06", EndDate: "present"},
			},
			want: 2.0,
		},
		{
			name: "ranges add up",
			experiences: []Experience{
				{StartDate: "2015-01", EndDate: "2017-01"},
				{StartDate: "2018-01", EndDate: "2019-01"},
			},
			want: 3.0,
		},
		{
			name: "unparseable start is skipped",
			experiences: []Experience{
				{StartDate: "long ago", EndDate: "2020-01"},
				{StartDate: "2019-01", EndDate: "2020-01"},
			},
			want: 1.0,
		},
		{
			name:        "empty bank",
			experiences: nil,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearsOfExperience(tt.experiences, now)
			assert.InDelta(t, tt.want, got, 0.05)
		})
	}
}
