package changelog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/changelog/internal/domain"
)

// Stringifier renders raw field values into normalized display strings, one
// rule per field type. File and image references need the external resolver;
// everything else is computed from the items alone.
type Stringifier struct {
	files FileResolver
}

// NewStringifier creates a stringifier backed by the given file resolver.
func NewStringifier(files FileResolver) *Stringifier {
	return &Stringifier{files: files}
}

// Stringify renders all items of a field into a single display string. Item
// strings are sorted before joining: storage order of multi-value fields is
// not meaningful for change detection, only membership and content are.
// Empty item strings are dropped.
func (s *Stringifier) Stringify(ctx context.Context, def domain.FieldDefinition, items []domain.FieldItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		part := s.stringifyItem(ctx, def, item)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func (s *Stringifier) stringifyItem(ctx context.Context, def domain.FieldDefinition, item domain.FieldItem) string {
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
	case domain.FieldTypeInteger, domain.FieldTypeTimestamp:
		seconds, ok := item.Int64Value("value")
		if !ok {
			return ""
		}
		return time.Unix(seconds, 0).Format("2006-01-02 15:04:05")
	case domain.FieldTypeDecimal, domain.FieldTypeFloat:
		number, ok := item.FloatValue("value")
		if !ok {
			return ""
		}
		return strconv.FormatFloat(number, 'f', 2, 64)
	case domain.FieldTypeDate:
		// Dates are stored as strings already; keep them verbatim.
		return item.StringValue("value")
	case domain.FieldTypeLink:
		uri := item.StringValue("uri")
		title := item.StringValue("title")
		if uri == "" && title == "" {
			return ""
		}
		return fmt.Sprintf("%s (%s)", uri, title)
	case domain.FieldTypeFileReference, domain.FieldTypeImageReference:
		return s.stringifyFile(ctx, item)
	case domain.FieldTypeParagraphReference:
		id, ok := item.Int64Value("target_id")
		if !ok {
			return ""
		}
		return fmt.Sprintf("Paragraph ID: %d", id)
	default:
		// Entity references and unknown types compare as canonical JSON.
		return domain.CanonicalJSON(map[string]any(item))
	}
}

func (s *Stringifier) stringifyFile(ctx context.Context, item domain.FieldItem) string {
	id, ok := item.Int64Value("target_id")
	if !ok {
		return ""
	}
	if s.files == nil {
		log.Printf("[changelog] no file resolver configured, cannot resolve file %d", id)
		return "File (error)"
	}
	url, err := s.files.ResolveURL(ctx, id)
	switch {
	case errors.Is(err, ErrFileNotFound):
		return "File (deleted)"
	case err != nil:
		log.Printf("[changelog] failed to resolve file %d: %v", id, err)
		return "File (error)"
	}
	return url
}
