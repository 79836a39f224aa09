package domain

import (
	"encoding/json"
	"fmt"
)

// Canonicalize recursively normalizes a decoded JSON tree into a deterministic
// form. Map entries whose canonical value is null, an empty string, or an
// empty collection are dropped after recursion; everything else passes through
// unchanged. The function is idempotent.
//
// Key ordering is handled at serialization time: CanonicalJSON relies on
// encoding/json emitting object keys in sorted order, so two trees that differ
// only in key order encode identically.
func Canonicalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, entry := range typed {
			canonical := Canonicalize(entry)
			if isEmptyValue(canonical) {
				continue
			}
			out[key] = canonical
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, entry := range typed {
			out = append(out, Canonicalize(entry))
		}
		return out
	default:
		return value
	}
}

// CanonicalJSON encodes Canonicalize(value) as JSON. Equivalent inputs encode
// byte-identically regardless of map key order or empty entries.
func CanonicalJSON(value any) string {
	encoded, err := json.Marshal(Canonicalize(value))
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

func isEmptyValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case map[string]any:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}
