package changelog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/changelog/internal/domain"
)

// FieldSummary maps a paragraph's sub-field names to their normalized display
// strings. Iterate via SortedKeys for deterministic output.
type FieldSummary map[string]string

// SortedKeys returns the summary's field names in ascending order.
func (s FieldSummary) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// paragraphInternalFields are structural sub-fields that never appear in a
// summary: identity, revision bookkeeping, parent linkage and administrative
// flags.
var paragraphInternalFields = map[string]struct{}{
	"id":                            {},
	"revision_id":                   {},
	"type":                          {},
	"status":                        {},
	"created":                       {},
	"parent_id":                     {},
	"parent_type":                   {},
	"parent_field_name":             {},
	"behavior_settings":             {},
	"langcode":                      {},
	"default_langcode":              {},
	"revision_default":              {},
	"revision_translation_affected": {},
}

// BuildSummary flattens a paragraph revision into a field-name to string
// summary. Internal fields are excluded, sub-field values render with the
// reduced rule set (text, boolean, entity reference, canonical JSON for the
// rest), and entries whose rendered value is empty are omitted.
func (s *Stringifier) BuildSummary(ctx context.Context, src RecordSource) FieldSummary {
	summary := FieldSummary{}
	for _, name := range src.FieldNames() {
		if _, excluded := paragraphInternalFields[name]; excluded {
			continue
		}
		def, ok := src.FieldDefinition(name)
		if !ok {
			continue
		}
		value := s.stringifySubField(def, src.FieldValue(name))
		if value == "" {
			continue
		}
		summary[name] = value
	}
	return summary
}

func (s *Stringifier) stringifySubField(def domain.FieldDefinition, items []domain.FieldItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		part := stringifySubItem(def, item)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func stringifySubItem(def domain.FieldDefinition, item domain.FieldItem) string {
	switch def.Type {
	case domain.FieldTypeString, domain.FieldTypeLongText:
		return strings.TrimSpace(item.StringValue("value"))
	case domain.FieldTypeBoolean:
		flag, ok := item.BoolValue("value")
		if !ok {
			return ""
		}
		if flag {
			return "Yes"
		}
		return "No"
	case domain.FieldTypeEntityReference:
		id, ok := item.Int64Value("target_id")
		if !ok {
			return ""
		}
		return fmt.Sprintf("Entity ID: %d", id)
	default:
		return domain.CanonicalJSON(map[string]any(item))
	}
}
