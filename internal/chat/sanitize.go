package chat

import (
	"html"
	"strings"
	"unicode/utf8"
)

const (
	// MaxMessageLength bounds a chat message body after trimming.
	MaxMessageLength = 500

	// MaxNameLength bounds a display name.
	MaxNameLength = 50

	// DefaultName replaces a display name that sanitizes to nothing.
	DefaultName = "Anonymous"
)

// Sanitize trims, truncates and escapes a chat body so stored and broadcast
// text can never be interpreted as markup by a downstream renderer. This is
// a correctness requirement, not cosmetics.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = truncate(s, MaxMessageLength)
	return html.EscapeString(s)
}

// SanitizeName applies the same treatment to a display name with a tighter
// bound, substituting a placeholder when nothing survives.
func SanitizeName(s string) string {
	s = strings.TrimSpace(s)
	s = truncate(s, MaxNameLength)
	s = html.EscapeString(s)
	if s == "" {
		return DefaultName
	}
	return s
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
