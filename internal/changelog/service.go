package changelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpattn/changelog/internal/domain"
)

// Service runs change detection over stored record revisions.
type Service struct {
	records  RecordStore
	detector *Detector
}

// NewService creates a detection service over the given record store.
func NewService(records RecordStore, detector *Detector) *Service {
	return &Service{records: records, detector: detector}
}

// DetectRequest names the record and the pair of revisions to compare.
// FromRevisionID may be zero for a record's first revision.
type DetectRequest struct {
	RecordID       int64
	FromRevisionID int64
	ToRevisionID   int64
}

// DetectChanges loads both revisions and runs a detection pass. The returned
// entries have already been appended to the log sink.
func (s *Service) DetectChanges(ctx context.Context, req DetectRequest) ([]domain.ChangeEntry, error) {
	if req.RecordID <= 0 {
		return nil, errors.New("record ID is required")
	}
	if req.ToRevisionID <= 0 {
		return nil, errors.New("target revision ID is required")
	}

	updated, err := s.records.GetRevision(ctx, req.RecordID, req.ToRevisionID)
	if err != nil {
		return nil, fmt.Errorf("load updated revision %d: %w", req.ToRevisionID, err)
	}

	var original RecordSource
	if req.FromRevisionID > 0 {
		previous, err := s.records.GetRevision(ctx, req.RecordID, req.FromRevisionID)
		if err != nil {
			return nil, fmt.Errorf("load original revision %d: %w", req.FromRevisionID, err)
		}
		original = previous
	}

	ref := ChangeContext{
		EntityKind: updated.Kind,
		EntityID:   updated.RecordID,
		RevisionID: updated.RevisionID,
	}
	return s.detector.DetectChanges(ctx, updated, original, ref), nil
}
