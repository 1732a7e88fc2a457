// Package sanitize strips markup from free-text admin input before it is stored
// and later rendered on the public tracking page.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding Text peels off.
const maxPasses = 4

// Text removes every HTML element from value and trims surrounding whitespace.
// Plain characters such as & come back unescaped, but only once decoding no
// longer exposes markup; input that keeps unwrapping into tags past maxPasses
// is returned in its escaped form.
func Text(value string) string {
	current := strings.TrimSpace(value)
	if current == "" {
		return ""
	}
	for pass := 0; pass < maxPasses; pass++ {
		next := strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(current)))
		if next == current {
			return current
		}
		current = next
	}
	return strings.TrimSpace(textPolicy.Sanitize(current))
}

// TextPtr applies Text to an optional value, returning nil when nothing remains.
func TextPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := Text(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
