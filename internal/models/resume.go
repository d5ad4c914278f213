package models

import "time"

// Resume is the metadata row for an uploaded resume file. The bytes live in
// the blob store keyed by StoredFilename.
type Resume struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	StoredFilename   string    `gorm:"size:255;unique;not null" json:"-"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	DisplayName      *string   `gorm:"size:120" json:"display_name,omitempty"`
	ContentType      string    `gorm:"size:120" json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`

	// URL is derived at read time and never stored.
	URL string `gorm:"-" json:"url"`
}
