package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDurationExceeded(t *testing.T) {
	warning := Evaluate(2, 6, "09:00", "10:30", 2)
	assert.Equal(t, "Warning: The max allowed duration is 60 min", warning)
}

func TestEvaluateAttendeesExceeded(t *testing.T) {
	warning := Evaluate(2, 6, "09:00", "09:30", 4)
	assert.Equal(t, "Warning: The max allowed attendees is 3", warning)
}

func TestEvaluateDurationTakesPriority(t *testing.T) {
	// Both limits are violated; the duration warning wins.
	warning := Evaluate(2, 6, "09:00", "12:00", 10)
	assert.Equal(t, "Warning: The max allowed duration is 60 min", warning)
}

func TestEvaluateUnrestrictedAreaExempt(t *testing.T) {
	assert.Empty(t, Evaluate(1, 6, "09:00", "23:00", 99))
}

func TestEvaluateAdminExempt(t *testing.T) {
	assert.Empty(t, Evaluate(3, 1, "09:00", "23:00", 99))
}

func TestEvaluateUnknownAreaUnrestricted(t *testing.T) {
	assert.Empty(t, Evaluate(77, 6, "00:00", "23:59", 500))
}

func TestEvaluateCrossingMidnightRejected(t *testing.T) {
	warning := Evaluate(2, 6, "23:00", "00:30", 1)
	assert.Equal(t, "Warning: The max allowed duration is 60 min", warning)
}

func TestEvaluateAtTheLimitPasses(t *testing.T) {
	assert.Empty(t, Evaluate(2, 6, "09:00", "10:00", 3))
	assert.Empty(t, Evaluate(5, 6, "09:00", "09:30", 12)) // area 5 has no attendee cap
}

func TestEvaluateMissingHoursSkipsDurationCheck(t *testing.T) {
	warning := Evaluate(2, 6, "", "", 4)
	assert.Equal(t, "Warning: The max allowed attendees is 3", warning)
}

func TestRuleFor(t *testing.T) {
	rule, ok := RuleFor(3)
	require.True(t, ok)
	assert.Equal(t, 1, rule.MaxMeeting)
	require.NotNil(t, rule.MaxDuration)
	assert.Equal(t, 60, *rule.MaxDuration)
	require.NotNil(t, rule.MaxAttendees)
	assert.Equal(t, 8, *rule.MaxAttendees)

	_, ok = RuleFor(99)
	assert.False(t, ok)

	rule, ok = RuleFor(4)
	require.True(t, ok)
	assert.Nil(t, rule.MaxDuration)
	assert.Nil(t, rule.MaxAttendees)
}
