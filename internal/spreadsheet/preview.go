package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PreviewState is the preview lifecycle: idle -> loading -> ready|error.
// Re-opening a document resets to idle first.
type PreviewState int

const (
	StateIdle PreviewState = iota
	StateLoading
	StateReady
	StateError
)

func (s PreviewState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Sheet is one worksheet rendered as display strings.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Fetcher retrieves document bytes by reference. The default fetcher
// uses HTTP GET; tests substitute their own.
type Fetcher func(ctx context.Context, ref string) ([]byte, error)

// HTTPFetcher returns a Fetcher backed by the given client.
func HTTPFetcher(client *http.Client) Fetcher {
	return func(ctx context.Context, ref string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid document reference: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch document: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch document: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
}

// Preview drives a read-only, browsable rendering of a workbook.
// It is not safe for concurrent use; each preview belongs to one
// request/response flow.
type Preview struct {
	fetch Fetcher

	state  PreviewState
	title  string
	sheets []Sheet
	active int
	err    error
}

// NewPreview creates a preview using the given fetcher.
func NewPreview(fetch Fetcher) *Preview {
	return &Preview{fetch: fetch, state: StateIdle}
}

// Open loads the document at ref. A previous session's state is
// discarded first. On transport or parse failure the preview lands in
// StateError with the retryable cause available via Err; the caller
// offers a direct download as fallback.
func (p *Preview) Open(ctx context.Context, ref, title string) error {
	p.reset()
	p.title = title
	p.state = StateLoading

	data, err := p.fetch(ctx, ref)
	if err != nil {
		p.state = StateError
		p.err = err
		return err
	}

	sheets, err := ParseSheets(data)
	if err != nil {
		p.state = StateError
		p.err = err
		return err
	}

	p.sheets = sheets
	p.active = 0
	p.state = StateReady
	return nil
}

// State returns the current lifecycle state.
func (p *Preview) State() PreviewState { return p.state }

// Err returns the failure cause when the state is error.
func (p *Preview) Err() error { return p.err }

// Title returns the display title supplied to Open.
func (p *Preview) Title() string { return p.title }

// Sheets returns all parsed sheets.
func (p *Preview) Sheets() []Sheet { return p.sheets }

// ActiveSheet returns the currently selected sheet, defaulting to the
// first. Returns nil unless the preview is ready and non-empty.
func (p *Preview) ActiveSheet() *Sheet {
	if p.state != StateReady || len(p.sheets) == 0 {
		return nil
	}
	return &p.sheets[p.active]
}

// SelectSheet switches the active sheet by name.
func (p *Preview) SelectSheet(name string) error {
	if p.state != StateReady {
		return fmt.Errorf("preview not ready")
	}
	for i := range p.sheets {
		if p.sheets[i].Name == name {
			p.active = i
			return nil
		}
	}
	return fmt.Errorf("no sheet named %q", name)
}

func (p *Preview) reset() {
	p.state = StateIdle
	p.title = ""
	p.sheets = nil
	p.active = 0
	p.err = nil
}

// ParseSheets parses every worksheet of an .xlsx document into display
// strings: fully-empty rows are dropped, the first remaining row
// becomes the header row (blank header cells get positional
// placeholders), and every cell is coerced to a string.
func ParseSheets(data []byte) ([]Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sheets []Sheet
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		var filtered [][]string
		for _, row := range rows {
			if !rowEmpty(row) {
				filtered = append(filtered, row)
			}
		}

		sheet := Sheet{Name: name}
		if len(filtered) > 0 {
			sheet.Headers = make([]string, len(filtered[0]))
			for i, h := range filtered[0] {
				if strings.TrimSpace(h) == "" {
					h = fmt.Sprintf("Column %d", i+1)
				}
				sheet.Headers[i] = h
			}
			sheet.Rows = filtered[1:]
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
