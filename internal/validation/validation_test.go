package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"user+tag@example.io",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
	assert.NoError(t, ValidatePassword("password123"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 128)))
}

func TestValidateName(t *testing.T) {
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("n", 101)))
	assert.NoError(t, ValidateName("Ada Lovelace"))
}

func TestValidateEventColor(t *testing.T) {
	valid := []string{"#3b82f6", "#FFFFFF", "#000000", "#AbCdEf"}
	for _, c := range valid {
		assert.NoError(t, ValidateEventColor(c), c)
	}

	invalid := []string{"", "3b82f6", "#3b82f", "#3b82f66", "#gggggg", "blue"}
	for _, c := range invalid {
		assert.Error(t, ValidateEventColor(c), c)
	}
}
