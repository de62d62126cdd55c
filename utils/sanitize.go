package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Posts and comments are plain text; strip every tag.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML tags from user input. The policy escapes what it keeps,
// so the result is unescaped again: text is stored raw and escaped on render.
// Running it twice gives the same text.
func Sanitize(input string) string {
	return html.UnescapeString(sanitizer.Sanitize(input))
}
