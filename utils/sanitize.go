package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeText strips every tag, for single line fields such as titles and tags.
func SanitizeText(input string) string {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(input))
}
