package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks. Used for question
// and answer bodies where limited markup is allowed.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// StripTags removes all markup. Used for notes, feedback, task
// descriptions and other plain-text fields.
func StripTags(input string) string {
	return stripper.Sanitize(input)
}
