package export

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rpattn/changelog/internal/domain"

	"github.com/xuri/excelize/v2"
)

type stubChangeLog struct {
	entries []domain.ChangeEntry
	calls   int
}

func (s *stubChangeLog) Append(_ context.Context, _ domain.ChangeEntry) error {
	return nil
}

func (s *stubChangeLog) List(_ context.Context, entityKind string, entityID int64, limit, offset int) ([]domain.ChangeEntry, error) {
	s.calls++
	matched := []domain.ChangeEntry{}
	for _, entry := range s.entries {
		if entry.EntityKind == entityKind && entry.EntityID == entityID {
			matched = append(matched, entry)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func sampleEntry(revisionID int64, label, diff string) domain.ChangeEntry {
	return domain.ChangeEntry{
		EntityKind: "article",
		EntityID:   100,
		RevisionID: revisionID,
		FieldLabel: label,
		DiffText:   diff,
		LoggedAt:   time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		ActorID:    7,
	}
}

func TestWriteChangeLog(t *testing.T) {
	repo := &stubChangeLog{entries: []domain.ChangeEntry{
		sampleEntry(201, "Body", "Changed from: Hello\nTo: Hello World"),
		sampleEntry(202, "Title", "Changed from: A\nTo: B"),
	}}
	service := NewService(repo)

	var buf bytes.Buffer
	rows, err := service.WriteChangeLog(context.Background(), "article", 100, &buf)
	if err != nil {
		t.Fatalf("WriteChangeLog failed: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 exported rows, got %d", rows)
	}

	workbook, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer workbook.Close()

	header, err := workbook.GetCellValue("Changes", "A1")
	if err != nil {
		t.Fatalf("failed to read header cell: %v", err)
	}
	if header != "Entity Kind" {
		t.Errorf("unexpected header cell: %q", header)
	}

	checks := map[string]string{
		"A2": "article",
		"B2": "100",
		"C2": "201",
		"D2": "Body",
		"F2": "2026-08-01 12:30:00",
		"G2": "7",
		"D3": "Title",
	}
	for cell, want := range checks {
		got, err := workbook.GetCellValue("Changes", cell)
		if err != nil {
			t.Fatalf("failed to read cell %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s: expected %q, got %q", cell, want, got)
		}
	}
}

func TestWriteChangeLogPagination(t *testing.T) {
	repo := &stubChangeLog{}
	for i := 0; i < 5; i++ {
		repo.entries = append(repo.entries,
			sampleEntry(int64(200+i), fmt.Sprintf("Field %d", i), "Changed from: a\nTo: b"))
	}
	service := NewService(repo, WithPageSize(2))

	var buf bytes.Buffer
	rows, err := service.WriteChangeLog(context.Background(), "article", 100, &buf)
	if err != nil {
		t.Fatalf("WriteChangeLog failed: %v", err)
	}
	if rows != 5 {
		t.Fatalf("expected 5 exported rows, got %d", rows)
	}
	if repo.calls != 3 {
		t.Fatalf("expected 3 paged queries, got %d", repo.calls)
	}
}

func TestWriteChangeLogEmptyLog(t *testing.T) {
	service := NewService(&stubChangeLog{})

	var buf bytes.Buffer
	rows, err := service.WriteChangeLog(context.Background(), "article", 100, &buf)
	if err != nil {
		t.Fatalf("WriteChangeLog failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected no rows, got %d", rows)
	}
	if buf.Len() == 0 {
		t.Fatal("an empty log should still produce a workbook with headers")
	}
}

func TestWriteChangeLogValidation(t *testing.T) {
	service := NewService(&stubChangeLog{})

	var buf bytes.Buffer
	if _, err := service.WriteChangeLog(context.Background(), "", 100, &buf); err == nil {
		t.Error("expected error for missing entity kind")
	}
	if _, err := service.WriteChangeLog(context.Background(), "article", 0, &buf); err == nil {
		t.Error("expected error for missing entity ID")
	}
}
