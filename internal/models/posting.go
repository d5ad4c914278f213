package models

import (
	"fmt"
	"time"
)

// PostingStatus represents the stage of a tracked job application.
type PostingStatus string

const (
	// StatusInterested is the default stage for a newly tracked posting.
	StatusInterested PostingStatus = "interested"
	// StatusApplied indicates the application has been submitted.
	StatusApplied PostingStatus = "applied"
	// StatusPhoneScreen indicates a phone screen has been scheduled or done.
	StatusPhoneScreen PostingStatus = "phone_screen"
	// StatusInterview indicates an on-site or technical interview stage.
	StatusInterview PostingStatus = "interview"
	// StatusOffer indicates an offer has been extended.
	StatusOffer PostingStatus = "offer"
	// StatusRejected indicates the application was rejected or withdrawn.
	StatusRejected PostingStatus = "rejected"
)

// ParsePostingStatus converts a raw string to a PostingStatus, returning an
// error for unknown values. Any status may replace any other; the enum is
// closed but the transition graph is permissive.
func ParsePostingStatus(s string) (PostingStatus, error) {
	st := PostingStatus(s)
	switch st {
	case StatusInterested, StatusApplied, StatusPhoneScreen, StatusInterview, StatusOffer, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown posting status %q", s)
}

// Due-state values derived from a posting's due date.
const (
	DueStateNone     = "none"
	DueStateUpcoming = "upcoming"
	DueStateDueSoon  = "due_soon"
	DueStateOverdue  = "overdue"
)

// dueSoonWindow is how far ahead a deadline counts as "due soon".
const dueSoonWindow = 3 * 24 * time.Hour

// Posting represents a tracked job/internship application record.
type Posting struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Company     string        `gorm:"size:120;not null" json:"company"`
	Description string        `gorm:"type:text" json:"description"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Status      PostingStatus `gorm:"type:varchar(20);default:'interested';index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Reminder *Reminder `gorm:"foreignKey:PostingID;constraint:OnDelete:CASCADE" json:"reminder,omitempty"`

	// DueState is derived from DueDate at read time and never stored.
	DueState string `gorm:"-" json:"due_state"`
}

// ComputeDueState classifies the posting's deadline relative to now.
// A nil due date yields DueStateNone.
func (p *Posting) ComputeDueState(now time.Time) string {
	if p.DueDate == nil {
		return DueStateNone
	}
	switch {
	case p.DueDate.Before(now):
		return DueStateOverdue
	case p.DueDate.Sub(now) <= dueSoonWindow:
		return DueStateDueSoon
	default:
		return DueStateUpcoming
	}
}
