package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rpattn/changelog/internal/domain"
	"github.com/rpattn/changelog/internal/repository"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Changes"

var changeLogHeaders = []any{
	"Entity Kind", "Entity ID", "Revision ID", "Field", "Change", "Logged At", "Actor ID",
}

// Service exports the change log of one entity as an XLSX workbook.
type Service struct {
	changeLog repository.ChangeLogRepository
	pageSize  int
}

// Option customizes the export service.
type Option func(*Service)

// WithPageSize overrides the page size used when reading the change log.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService creates an export service over the change-log repository.
func NewService(changeLog repository.ChangeLogRepository, opts ...Option) *Service {
	service := &Service{changeLog: changeLog, pageSize: 500}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// WriteChangeLog streams all change entries for the entity into an XLSX
// workbook written to w. Returns the number of exported rows.
func (s *Service) WriteChangeLog(ctx context.Context, entityKind string, entityID int64, w io.Writer) (int, error) {
	entityKind = strings.TrimSpace(entityKind)
	if entityKind == "" {
		return 0, errors.New("entity kind is required")
	}
	if entityID <= 0 {
		return 0, errors.New("entity ID is required")
	}

	workbook := excelize.NewFile()
	defer func() {
		if err := workbook.Close(); err != nil {
			log.Printf("[export] failed to close workbook: %v", err)
		}
	}()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), sheetName); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}
	if err := workbook.SetSheetRow(sheetName, "A1", &changeLogHeaders); err != nil {
		return 0, fmt.Errorf("write header row: %w", err)
	}

	rowsExported := 0
	offset := 0
	for {
		if ctx.Err() != nil {
			return rowsExported, ctx.Err()
		}
		entries, err := s.changeLog.List(ctx, entityKind, entityID, s.pageSize, offset)
		if err != nil {
			return rowsExported, fmt.Errorf("list change entries: %w", err)
		}
		if len(entries) == 0 {
			break
		}
		for _, entry := range entries {
			cell := fmt.Sprintf("A%d", rowsExported+2)
			if err := workbook.SetSheetRow(sheetName, cell, rowValues(entry)); err != nil {
				return rowsExported, fmt.Errorf("write entry row: %w", err)
			}
			rowsExported++
		}
		if len(entries) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	if err := workbook.Write(w); err != nil {
		return rowsExported, fmt.Errorf("write workbook: %w", err)
	}

	log.Printf("[export] change log export completed (kind=%s id=%d rows=%d)", entityKind, entityID, rowsExported)
	return rowsExported, nil
}

func rowValues(entry domain.ChangeEntry) *[]any {
	return &[]any{
		entry.EntityKind,
		entry.EntityID,
		entry.RevisionID,
		entry.FieldLabel,
		entry.DiffText,
		entry.LoggedAt.Format("2006-01-02 15:04:05"),
		entry.ActorID,
	}
}
