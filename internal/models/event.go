package models

import "time"

// DefaultEventColor is assigned when a calendar event omits a color.
const DefaultEventColor = "#3b82f6"

// CalendarEvent is a user-owned calendar entry (interview, deadline, etc).
type CalendarEvent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `gorm:"type:text" json:"description"`
	Color       string     `gorm:"size:7;default:'#3b82f6'" json:"color"`
	CreatedAt   time.Time  `json:"created_at"`
}
