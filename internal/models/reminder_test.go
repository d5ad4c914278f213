package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseReminderTiming(t *testing.T) {
	for _, valid := range []string{"1_day", "3_days", "1_week"} {
		got, err := ParseReminderTiming(valid)
		assert.NoError(t, err)
		assert.Equal(t, ReminderTiming(valid), got)
	}

	for _, invalid := range []string{"", "2_days", "1 day", "1_DAY"} {
		_, err := ParseReminderTiming(invalid)
		assert.Error(t, err, "expected error for %q", invalid)
	}
}

func TestReminderTimingLead(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TimingOneDay.Lead())
	assert.Equal(t, 3*24*time.Hour, TimingThreeDays.Lead())
	assert.Equal(t, 7*24*time.Hour, TimingOneWeek.Lead())
}
