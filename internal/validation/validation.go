// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxTitleLen caps posting and event titles.
	MaxTitleLen = 200
	// MaxCompanyLen caps posting company names.
	MaxCompanyLen = 120
	// MaxDescriptionLen caps posting and event descriptions.
	MaxDescriptionLen = 10000
	// MaxDisplayNameLen caps resume display names.
	MaxDisplayNameLen = 120
	// MaxFilenameLen caps uploaded original filenames.
	MaxFilenameLen = 255
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidatePassword checks if a password meets the minimum policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// ValidateName checks a user's display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is required")
	}
	if len(trimmed) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}
	return nil
}

// ValidateEventColor checks a calendar event color is a hex triplet like #3b82f6.
func ValidateEventColor(color string) error {
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("color must be a hex value like #3b82f6")
	}
	return nil
}
