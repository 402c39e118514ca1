package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook produces an in-memory .xlsx with two sheets, an empty
// row, and a blank header cell.
func buildWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// Default sheet: header row with a blank cell, one empty row, two data rows
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"Tower", "", "Amount"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A3", &[]any{"A", "Q1", "12000"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A4", &[]any{"B", "Q1", "9500"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	if err := f.SetSheetRow("Summary", "A1", &[]any{"Total"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}
	if err := f.SetSheetRow("Summary", "A2", &[]any{"21500"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes()
}

func TestPreviewOpenReady(t *testing.T) {
	workbook := buildWorkbook(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(workbook)
	}))
	defer server.Close()

	p := NewPreview(HTTPFetcher(server.Client()))
	if p.State() != StateIdle {
		t.Fatalf("expected idle, got %s", p.State())
	}

	if err := p.Open(context.Background(), server.URL, "CAM Report"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if p.State() != StateReady {
		t.Fatalf("expected ready, got %s", p.State())
	}
	if p.Title() != "CAM Report" {
		t.Errorf("title: got %q", p.Title())
	}

	sheets := p.Sheets()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}

	// Active sheet defaults to the first
	active := p.ActiveSheet()
	if active == nil || active.Name != "Sheet1" {
		t.Fatalf("expected Sheet1 active, got %+v", active)
	}

	// Blank header cell gets a positional placeholder
	if len(active.Headers) != 3 || active.Headers[1] != "Column 2" {
		t.Errorf("headers: got %v", active.Headers)
	}

	// The empty row between header and data is dropped
	if len(active.Rows) != 2 {
		t.Errorf("expected 2 data rows, got %d: %v", len(active.Rows), active.Rows)
	}
}

func TestPreviewSelectSheet(t *testing.T) {
	workbook := buildWorkbook(t)
	p := NewPreview(func(ctx context.Context, ref string) ([]byte, error) {
		return workbook, nil
	})
	if err := p.Open(context.Background(), "doc-ref", "Report"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := p.SelectSheet("Summary"); err != nil {
		t.Fatalf("SelectSheet failed: %v", err)
	}
	if got := p.ActiveSheet().Name; got != "Summary" {
		t.Errorf("active sheet: got %q", got)
	}

	if err := p.SelectSheet("Missing"); err == nil {
		t.Error("expected error selecting unknown sheet")
	}
}

func TestPreviewTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewPreview(HTTPFetcher(server.Client()))
	if err := p.Open(context.Background(), server.URL, "Report"); err == nil {
		t.Fatal("expected error")
	}
	if p.State() != StateError {
		t.Fatalf("expected error state, got %s", p.State())
	}
	if p.Err() == nil {
		t.Error("expected retryable cause via Err")
	}
	if p.ActiveSheet() != nil {
		t.Error("no active sheet in error state")
	}
}

func TestPreviewReopenResets(t *testing.T) {
	workbook := buildWorkbook(t)
	calls := 0
	p := NewPreview(func(ctx context.Context, ref string) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("transient failure")
		}
		return workbook, nil
	})

	if err := p.Open(context.Background(), "doc-1", "First"); err == nil {
		t.Fatal("expected first open to fail")
	}
	if p.State() != StateError {
		t.Fatalf("expected error state, got %s", p.State())
	}

	// Re-open with a new reference: previous error is discarded
	if err := p.Open(context.Background(), "doc-2", "Second"); err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if p.State() != StateReady {
		t.Fatalf("expected ready, got %s", p.State())
	}
	if p.Err() != nil {
		t.Errorf("stale error retained: %v", p.Err())
	}
}
