package domain

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"
)

var (
	markupTagPattern = regexp.MustCompile(`<[^>]*>`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// Normalize reduces a rendered field value to a comparison-stable form:
// HTML/XML entities are decoded, markup tags stripped, surrounding whitespace
// trimmed and inner runs collapsed to single spaces. A value that is a
// whole-string JSON object is re-encoded canonically so key order and empty
// entries cannot register as changes; values that merely look like JSON but
// fail to parse are kept as plain text.
func Normalize(input string) string {
	decoded := html.UnescapeString(input)
	stripped := markupTagPattern.ReplaceAllString(decoded, "")
	collapsed := whitespaceRuns.ReplaceAllString(strings.TrimSpace(stripped), " ")

	if strings.HasPrefix(collapsed, "{") && strings.HasSuffix(collapsed, "}") {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(collapsed), &parsed); err == nil {
			collapsed = CanonicalJSON(parsed)
		}
	}

	return strings.TrimSpace(collapsed)
}
