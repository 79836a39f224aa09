package domain

import (
	"encoding/json"
	"strconv"
)

// FieldType classifies a field for display-string rendering. Values the
// detector does not recognize fall through to the canonical-JSON rendering
// path, so new storage types degrade gracefully instead of breaking a pass.
type FieldType string

const (
	FieldTypeString             FieldType = "string"
	FieldTypeLongText           FieldType = "long_text"
	FieldTypeBoolean            FieldType = "boolean"
	FieldTypeInteger            FieldType = "integer"
	FieldTypeTimestamp          FieldType = "timestamp"
	FieldTypeDecimal            FieldType = "decimal"
	FieldTypeFloat              FieldType = "float"
	FieldTypeDate               FieldType = "date"
	FieldTypeLink               FieldType = "link"
	FieldTypeFileReference      FieldType = "file_reference"
	FieldTypeImageReference     FieldType = "image_reference"
	FieldTypeEntityReference    FieldType = "entity_reference"
	FieldTypeParagraphReference FieldType = "paragraph_reference"
)

// FieldDefinition describes one field of a record kind.
type FieldDefinition struct {
	Name  string    `json:"name"`
	Type  FieldType `json:"type"`
	Label string    `json:"label,omitempty"`
	// TargetKind names the referenced kind for reference-typed fields.
	TargetKind string `json:"targetKind,omitempty"`
}

// DisplayLabel returns the human label for the field, falling back to the
// machine name when no label was configured.
func (d FieldDefinition) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

// FieldItem is one raw value of a (possibly multi-value) field, as decoded
// from JSONB. Well-known keys are "value", "uri", "title", "target_id" and
// "target_revision_id"; anything else is carried through untouched.
type FieldItem map[string]any

// StringValue returns the item entry as a string, or "" when absent or not
// string-shaped.
func (i FieldItem) StringValue(key string) string {
	switch typed := i[key].(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

// Int64Value returns the item entry as an int64. JSONB decoding yields
// float64 for numbers and external sources sometimes store numerics as
// strings, so both are accepted.
func (i FieldItem) Int64Value(key string) (int64, bool) {
	switch typed := i[key].(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		return int64(typed), true
	case json.Number:
		parsed, err := typed.Int64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseInt(typed, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// FloatValue returns the item entry as a float64, accepting the same numeric
// encodings as Int64Value.
func (i FieldItem) FloatValue(key string) (float64, bool) {
	switch typed := i[key].(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int:
		return float64(typed), true
	case json.Number:
		parsed, err := typed.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(typed, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// BoolValue returns the item entry as a bool. Numeric and string encodings of
// 0/1 are accepted because boolean columns round-trip through JSONB that way.
func (i FieldItem) BoolValue(key string) (bool, bool) {
	switch typed := i[key].(type) {
	case bool:
		return typed, true
	case float64:
		return typed != 0, true
	case int64:
		return typed != 0, true
	case int:
		return typed != 0, true
	case string:
		switch typed {
		case "1", "true":
			return true, true
		case "0", "false", "":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}
