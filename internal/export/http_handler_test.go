package export

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpattn/changelog/internal/domain"

	"github.com/xuri/excelize/v2"
)

type failingChangeLog struct{}

func (f *failingChangeLog) Append(_ context.Context, _ domain.ChangeEntry) error {
	return nil
}

func (f *failingChangeLog) List(_ context.Context, _ string, _ int64, _, _ int) ([]domain.ChangeEntry, error) {
	return nil, errors.New("connection refused")
}

func TestExportHandler(t *testing.T) {
	repo := &stubChangeLog{entries: []domain.ChangeEntry{
		sampleEntry(201, "Body", "Changed from: Hello\nTo: Hello World"),
	}}
	handler := NewHTTPHandler(NewService(repo))

	req := httptest.NewRequest(http.MethodGet, "/exports/changes?entityKind=article&entityId=100", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "changes-article-100.xlsx") {
		t.Errorf("unexpected disposition: %q", got)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response body is not a workbook: %v", err)
	}
	defer workbook.Close()

	cell, err := workbook.GetCellValue("Changes", "D2")
	if err != nil {
		t.Fatalf("failed to read cell: %v", err)
	}
	if cell != "Body" {
		t.Errorf("unexpected cell value: %q", cell)
	}
}

func TestExportHandlerFailureReturnsErrorStatus(t *testing.T) {
	handler := NewHTTPHandler(NewService(&failingChangeLog{}))

	req := httptest.NewRequest(http.MethodGet, "/exports/changes?entityKind=article&entityId=100", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a failed export, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "" {
		t.Errorf("a failed export must not announce a download: %q", got)
	}
}

func TestExportHandlerValidation(t *testing.T) {
	handler := NewHTTPHandler(NewService(&stubChangeLog{}))

	req := httptest.NewRequest(http.MethodGet, "/exports/changes?entityId=100", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing entityKind: expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/exports/changes?entityKind=article&entityId=100", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("wrong method: expected 404, got %d", rec.Code)
	}
}
