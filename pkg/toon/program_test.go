package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeeklyList_RepairsPseudoJSON(t *testing.T) {
	raw := []byte(`{result: 'ok', programs: [` +
		`{targetState: 0, weekDay: 2, startTimeT: 64800, endTimeT: 79200}, ` +
		`{targetState: 3, weekDay: 2, startTimeT: 28800, endTimeT: 64800}]}`)

	program, err := parseWeeklyList(raw)
	require.NoError(t, err)
	require.Len(t, program, 2)

	// Entries within a day are ordered by start time.
	assert.Equal(t, StateAway, program[0].TargetState)
	assert.Equal(t, "08:00", program[0].StartClock())
	assert.Equal(t, "18:00", program[0].EndClock())
	assert.Equal(t, StateComfort, program[1].TargetState)
	assert.Equal(t, "18:00", program[1].StartClock())
	assert.Equal(t, "22:00", program[1].EndClock())
}

func TestParseWeeklyList_BadResult(t *testing.T) {
	_, err := parseWeeklyList([]byte(`{result: 'error', programs: []}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestParseWeeklyList_Empty(t *testing.T) {
	program, err := parseWeeklyList([]byte(`{result: 'ok', programs: []}`))
	require.NoError(t, err)
	assert.Empty(t, program)
}

func TestParseWeeklyList_Garbage(t *testing.T) {
	_, err := parseWeeklyList([]byte(`no program here`))
	assert.Error(t, err)
}
