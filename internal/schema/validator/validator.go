package validator

import (
	"fmt"
	"strings"

	"github.com/rpattn/changelog/internal/domain"
)

var referenceCapableTypes = map[domain.FieldType]struct{}{
	domain.FieldTypeEntityReference:    {},
	domain.FieldTypeParagraphReference: {},
	domain.FieldTypeFileReference:      {},
	domain.FieldTypeImageReference:     {},
}

// ValidateFields checks a kind's field definitions as decoded from storage:
// names must be present and unique, and only reference-capable types may
// declare a target kind. Unknown field types pass, they degrade to the
// canonical-JSON rendering path downstream.
func ValidateFields(fields []domain.FieldDefinition) error {
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("field definition with type %s has no name", field.Type)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate field definition %s", name)
		}
		seen[name] = struct{}{}

		if target := strings.TrimSpace(field.TargetKind); target != "" {
			if _, ok := referenceCapableTypes[field.Type]; !ok {
				return fmt.Errorf("field %s cannot declare a target kind because type %s does not support references", name, field.Type)
			}
		}
	}

	return nil
}
