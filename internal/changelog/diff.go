package changelog

import (
	"fmt"

	"github.com/rpattn/changelog/internal/domain"
)

// Diff compares two rendered field values and describes a material change.
// Both sides are normalized first, so differences in whitespace, markup,
// entity encoding or JSON key order never register. Returns "" when the
// values normalize identically.
func Diff(original, updated string) string {
	normalizedOriginal := domain.Normalize(original)
	normalizedUpdated := domain.Normalize(updated)
	if normalizedOriginal == normalizedUpdated {
		return ""
	}
	return fmt.Sprintf("Changed from: %s\nTo: %s", normalizedOriginal, normalizedUpdated)
}
