package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Revision is one immutable snapshot of a record's (or paragraph's) field
// values, together with the field definitions of its kind. A change-detection
// pass never mutates a revision.
type Revision struct {
	RecordID   int64
	RevisionID int64
	Kind       string
	Fields     []FieldDefinition
	Values     map[string][]FieldItem
}

// FieldDefinition looks up the definition for a field by machine name.
func (r Revision) FieldDefinition(name string) (FieldDefinition, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// FieldValue returns the raw items stored for a field; nil when the field
// carries no value on this revision.
func (r Revision) FieldValue(name string) []FieldItem {
	return r.Values[name]
}

// HasField reports whether this revision carries a value for the field.
func (r Revision) HasField(name string) bool {
	_, ok := r.Values[name]
	return ok
}

// FieldNames returns the names of all fields with values on this revision,
// sorted so a detection pass enumerates fields deterministically.
func (r Revision) FieldNames() []string {
	names := make([]string, 0, len(r.Values))
	for name := range r.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromJSONBFields decodes a kind's field definitions from JSONB storage.
func FromJSONBFields(fieldsJSON json.RawMessage) ([]FieldDefinition, error) {
	var fields []FieldDefinition
	err := json.Unmarshal(fieldsJSON, &fields)
	return fields, err
}

// FromJSONBFieldValues decodes stored field values. The canonical shape maps
// each field name to an array of items, but single-item objects written by
// older ingest paths are accepted and wrapped.
func FromJSONBFieldValues(valuesJSON json.RawMessage) (map[string][]FieldItem, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(valuesJSON, &raw); err != nil {
		return nil, fmt.Errorf("decode field values: %w", err)
	}

	values := make(map[string][]FieldItem, len(raw))
	for name, entry := range raw {
		var items []FieldItem
		if err := json.Unmarshal(entry, &items); err == nil {
			values[name] = items
			continue
		}
		var single FieldItem
		if err := json.Unmarshal(entry, &single); err != nil {
			return nil, fmt.Errorf("decode field %s: %w", name, err)
		}
		values[name] = []FieldItem{single}
	}

	return values, nil
}
