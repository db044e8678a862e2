package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML cleans fetched user-generated HTML (post bodies) so it is safe
// to render while keeping basic formatting.
func SanitizeHTML(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizeText strips all markup from fetched plain fields such as usernames,
// titles and comment text.
func SanitizeText(input string) string {
	return plainPolicy.Sanitize(input)
}
