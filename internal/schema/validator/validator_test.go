package validator

import (
	"testing"

	"github.com/rpattn/changelog/internal/domain"
)

func TestValidateFieldsAcceptsWellFormedKind(t *testing.T) {
	fields := []domain.FieldDefinition{
		{Name: "body", Type: domain.FieldTypeLongText},
		{Name: "sections", Type: domain.FieldTypeParagraphReference, TargetKind: "text_section"},
		{Name: "author", Type: domain.FieldTypeEntityReference, TargetKind: "user"},
	}
	if err := ValidateFields(fields); err != nil {
		t.Fatalf("expected valid fields, got %v", err)
	}
}

func TestValidateFieldsRejectsMissingName(t *testing.T) {
	fields := []domain.FieldDefinition{{Name: "  ", Type: domain.FieldTypeString}}
	if err := ValidateFields(fields); err == nil {
		t.Fatal("expected error for unnamed field")
	}
}

func TestValidateFieldsRejectsDuplicateNames(t *testing.T) {
	fields := []domain.FieldDefinition{
		{Name: "body", Type: domain.FieldTypeLongText},
		{Name: "body", Type: domain.FieldTypeString},
	}
	if err := ValidateFields(fields); err == nil {
		t.Fatal("expected error for duplicate field name")
	}
}

func TestValidateFieldsRejectsTargetKindOnScalars(t *testing.T) {
	fields := []domain.FieldDefinition{
		{Name: "body", Type: domain.FieldTypeLongText, TargetKind: "user"},
	}
	if err := ValidateFields(fields); err == nil {
		t.Fatal("expected error for target kind on a scalar field")
	}
}

func TestValidateFieldsAllowsUnknownTypes(t *testing.T) {
	fields := []domain.FieldDefinition{{Name: "geo", Type: domain.FieldType("geolocation")}}
	if err := ValidateFields(fields); err != nil {
		t.Fatalf("unknown types should pass, got %v", err)
	}
}
