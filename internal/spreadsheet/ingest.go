// Package spreadsheet parses CAM and budget workbooks: a strict
// ingestion path feeding bulk updates, and a lenient preview path that
// renders any workbook as display strings.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	// HeaderRows is the fixed header region of exported budget sheets;
	// rows at index < HeaderRows never contribute to the result.
	HeaderRows = 10

	serialColumn = 0
	amountColumn = 5
)

// Update is one accepted (serial, amount) pair.
type Update struct {
	SerialNo int
	Amount   decimal.Decimal
}

// Result holds the accepted updates in source row order and their sum.
type Result struct {
	Updates []Update
	Total   decimal.Decimal
}

// ParseRows extracts budget updates from sheet rows (0-indexed cells).
// A row contributes only if column 0 parses as an integer serial and
// column 5 holds a non-negative amount after currency normalization.
// Malformed rows are dropped silently, matching the human-supervised
// one-off import this feeds.
func ParseRows(rows [][]string) *Result {
	result := &Result{Total: decimal.Zero}

	for i, row := range rows {
		if i < HeaderRows {
			continue
		}
		if len(row) <= serialColumn || row[serialColumn] == "" {
			continue
		}

		serialNo, err := strconv.Atoi(strings.TrimSpace(row[serialColumn]))
		if err != nil {
			continue
		}

		if len(row) <= amountColumn {
			continue
		}
		amount, ok := parseAmount(row[amountColumn])
		if !ok || amount.IsNegative() {
			continue
		}

		result.Updates = append(result.Updates, Update{SerialNo: serialNo, Amount: amount})
		result.Total = result.Total.Add(amount)
	}

	return result
}

// parseAmount normalizes a currency-formatted cell ("₹1,234.50") to a
// decimal value.
func parseAmount(cell string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '₹', ',', ' ', '\t', ' ':
			return -1
		}
		return r
	}, cell)
	if cleaned == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// ParseWorkbook reads the first sheet of an .xlsx stream and extracts
// budget updates from it.
func ParseWorkbook(r io.Reader) (*Result, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return ParseRows(rows), nil
}
