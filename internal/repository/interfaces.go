package repository

import (
	"context"

	"github.com/rpattn/changelog/internal/domain"
)

// ChangeLogRepository persists change entries. Append is the only write the
// core issues; List exists for the display surface.
type ChangeLogRepository interface {
	Append(ctx context.Context, entry domain.ChangeEntry) error
	List(ctx context.Context, entityKind string, entityID int64, limit, offset int) ([]domain.ChangeEntry, error)
}

// RecordRepository loads record revisions together with their kind's field
// definitions.
type RecordRepository interface {
	GetRevision(ctx context.Context, recordID, revisionID int64) (domain.Revision, error)
}

// ParagraphRepository loads paragraph revisions. The batch methods back the
// dataloader used by the detector's nested algorithm.
type ParagraphRepository interface {
	ListByRevisionIDs(ctx context.Context, revisionIDs []int64) ([]domain.Revision, error)
	ListLatestByIDs(ctx context.Context, paragraphIDs []int64) ([]domain.Revision, error)
}

// FileRepository resolves file references to their stored URLs.
type FileRepository interface {
	ResolveURL(ctx context.Context, fileID int64) (string, error)
}
