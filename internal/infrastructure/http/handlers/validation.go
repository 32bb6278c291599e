package handlers

import "strings"

// Validation limits.
const (
	MaxUserIDLength  = 64
	MaxMessageLength = 2000
	MaxTitleLength   = 255
)

// SanitizeUserID trims a university serial number; returns empty if over
// max length.
func SanitizeUserID(id string) string {
	s := strings.TrimSpace(id)
	if len(s) > MaxUserIDLength {
		return ""
	}
	return s
}

// SanitizeMessage trims message text; returns empty if over max length.
func SanitizeMessage(msg string) string {
	s := strings.TrimSpace(msg)
	if len(s) > MaxMessageLength {
		return ""
	}
	return s
}

// SanitizeTitle trims a project title; returns empty if over max length.
func SanitizeTitle(title string) string {
	s := strings.TrimSpace(title)
	if len(s) > MaxTitleLength {
		return ""
	}
	return s
}
