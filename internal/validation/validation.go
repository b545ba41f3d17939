package validation

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxInputLength caps headlines and app names, in runes.
const MaxInputLength = 300

// NormalizeInput trims surrounding whitespace from a form field.
func NormalizeInput(s string) string {
	return strings.TrimSpace(s)
}

// ValidateInput checks a trimmed form value. Empty or whitespace-only input
// is rejected before any processing.
func ValidateInput(field, value string) (bool, string) {
	value = NormalizeInput(value)
	if value == "" {
		return false, field + " is required"
	}
	if utf8.RuneCountInString(value) > MaxInputLength {
		return false, field + " is too long"
	}
	if !utf8.ValidString(value) {
		return false, field + " is not valid text"
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// Feed links failing this are never rendered as anchors.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// SafeLink returns urlStr when ValidateURL accepts it, otherwise "".
func SafeLink(urlStr string) string {
	if ok, _ := ValidateURL(strings.TrimSpace(urlStr)); ok {
		return strings.TrimSpace(urlStr)
	}
	return ""
}
