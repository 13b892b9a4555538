package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func experienceRow(skillsJSON []byte) *fakeRow {
	now := time.Now()
	return &fakeRow{vals: []any{
		uuid.New(), uuid.New(), "Software Engineer", "Globex", "Built services",
		"2019-03", "present", skillsJSON, now, now,
	}}
}

func TestScanExperience_DecodesSkills(t *testing.T) {
	e, err := scanExperience(experienceRow([]byte(`["Go", "Postgres"]`)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Postgres"}, e.Skills)
}

func TestScanExperience_CorruptSkillsIsAnError(t *testing.T) {
	_, err := scanExperience(experienceRow([]byte(`["Go"`)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode skills")
}
