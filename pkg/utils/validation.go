package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// ValidateName requires a non-empty display name of reasonable length.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 100
}

// ValidateOTP requires a numeric code of exactly the given width.
func ValidateOTP(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateDateOfBirth accepts YYYY-MM-DD dates that are not in the future.
func ValidateDateOfBirth(dob string) bool {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return false
	}
	return !t.After(time.Now())
}

// NormalizeEmail lowercases and trims an email so lookups are
// case-insensitive on the stored key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
