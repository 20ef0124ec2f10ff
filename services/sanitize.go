package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML from user-supplied text fields (notes,
// transcripts). Built once; bluemonday policies are safe for
// concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes any HTML markup from user-supplied free text
func SanitizeText(text string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(text))
}
