package models

import (
	"fmt"
	"time"
)

// ReminderTiming is how long before a posting's due date the reminder fires.
type ReminderTiming string

const (
	// TimingOneDay fires one day before the due date.
	TimingOneDay ReminderTiming = "1_day"
	// TimingThreeDays fires three days before the due date.
	TimingThreeDays ReminderTiming = "3_days"
	// TimingOneWeek fires one week before the due date.
	TimingOneWeek ReminderTiming = "1_week"
)

// ParseReminderTiming converts a raw string to a ReminderTiming.
func ParseReminderTiming(s string) (ReminderTiming, error) {
	t := ReminderTiming(s)
	switch t {
	case TimingOneDay, TimingThreeDays, TimingOneWeek:
		return t, nil
	}
	return "", fmt.Errorf("unknown reminder timing %q", s)
}

// Lead returns the duration before the due date at which the reminder fires.
func (t ReminderTiming) Lead() time.Duration {
	switch t {
	case TimingThreeDays:
		return 3 * 24 * time.Hour
	case TimingOneWeek:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Reminder is an email-reminder record attached to a posting. Delivery is
// out of scope here; rows exist so a mailer can pick up due reminders.
type Reminder struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PostingID    uint           `gorm:"not null;uniqueIndex" json:"posting_id"`
	EmailAddress string         `gorm:"size:255;not null" json:"email_address"`
	Timing       ReminderTiming `gorm:"type:varchar(10);default:'1_day'" json:"timing"`
	CreatedAt    time.Time      `json:"created_at"`
}
