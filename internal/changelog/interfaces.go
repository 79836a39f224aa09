package changelog

import (
	"context"
	"errors"

	"github.com/rpattn/changelog/internal/domain"
)

var (
	// ErrFileNotFound signals that a referenced file no longer resolves.
	// The stringifier renders it as "File (deleted)" rather than failing.
	ErrFileNotFound = errors.New("file not found")

	// ErrParagraphNotFound signals that a paragraph revision could not be
	// loaded. The detector logs and skips the item.
	ErrParagraphNotFound = errors.New("paragraph revision not found")
)

// RecordSource exposes one revision's field definitions and raw values. The
// detector treats it as a read-only snapshot; domain.Revision implements it.
type RecordSource interface {
	FieldDefinition(name string) (domain.FieldDefinition, bool)
	FieldValue(name string) []domain.FieldItem
	HasField(name string) bool
	FieldNames() []string
}

// ParagraphSource loads nested paragraph revisions referenced by a record.
type ParagraphSource interface {
	GetByRevision(ctx context.Context, revisionID int64) (domain.Revision, error)
	GetLatest(ctx context.Context, paragraphID int64) (domain.Revision, error)
}

// FileResolver resolves a referenced file to its absolute URL. Implementations
// return ErrFileNotFound when the reference no longer resolves.
type FileResolver interface {
	ResolveURL(ctx context.Context, fileID int64) (string, error)
}

// LogSink appends change entries to the external audit log. Appends are
// fire-and-forget from the detector's point of view: a failed append is
// logged, never retried, and never aborts the pass.
type LogSink interface {
	Append(ctx context.Context, entry domain.ChangeEntry) error
}

// LogReader lists previously appended entries for display surfaces.
type LogReader interface {
	List(ctx context.Context, entityKind string, entityID int64, limit, offset int) ([]domain.ChangeEntry, error)
}

// RecordStore loads stored record revisions for the detection service.
type RecordStore interface {
	GetRevision(ctx context.Context, recordID, revisionID int64) (domain.Revision, error)
}
