package utils

import "github.com/microcosm-cc/bluemonday"

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user-supplied text fields such as event
// titles and descriptions before they are stored.
func SanitizeText(input string) string {
	return strictPolicy.Sanitize(input)
}
