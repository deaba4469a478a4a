package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a workbook has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrNoHeader is returned when the input ends before the header row.
var ErrNoHeader = errors.New("header row not found")

// Options controls how a contract file is read.
type Options struct {
	Sheet     string // workbook sheet name (xlsx only)
	HeaderRow int    // zero-based row holding the column names
}

// ReadFile loads a contract from disk, choosing the reader by extension.
// .xlsx/.xlsm go through excelize, .csv through encoding/csv.
func ReadFile(path string, opts Options) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		return ReadCSV(f, opts.HeaderRow)
	default:
		return ReadXLSX(path, opts)
	}
}

// ReadXLSX reads one sheet of a workbook. Merged regions only carry their
// value in the top-left cell, so every other cell of the region is absent.
func ReadXLSX(path string, opts Options) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(opts.Sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, opts.Sheet)
	}

	rows, err := f.GetRows(opts.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", opts.Sheet, err)
	}
	if len(rows) <= opts.HeaderRow {
		return nil, ErrNoHeader
	}

	doc := NewDocument(headerNames(rows[opts.HeaderRow]), opts.HeaderRow)
	for r := opts.HeaderRow + 1; r < len(rows); r++ {
		cells := make([]Cell, len(rows[r]))
		for c, raw := range rows[r] {
			cells[c] = xlsxCell(f, opts.Sheet, c, r, raw)
		}
		doc.AppendRow(cells)
	}
	return doc, nil
}

// xlsxCell keeps numeric cells numeric so that "10" stored as a number
// renders the same way a number typed as text would.
func xlsxCell(f *excelize.File, sheet string, col, row int, raw string) Cell {
	if raw == "" {
		return Absent()
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Text(raw)
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return Text(raw)
	}
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return Number(n)
		}
	}
	return Text(raw)
}

// ReadCSV reads a contract exported as CSV. Rows before headerRow are skipped.
// Blank lines are kept as empty rows so that row numbers match the sheet the
// file was exported from.
func ReadCSV(r io.Reader, headerRow int) (*Document, error) {
	data, err := io.ReadAll(SkipBOM(r))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = SanitizeUTF8(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records := make([][]string, blankLines(data))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		records = append(records, rec)
		for n := blankLines(data[cr.InputOffset():]); n > 0; n-- {
			records = append(records, nil)
		}
	}
	if len(records) <= headerRow {
		return nil, ErrNoHeader
	}

	doc := NewDocument(headerNames(records[headerRow]), headerRow)
	for _, rec := range records[headerRow+1:] {
		cells := make([]Cell, len(rec))
		for i, raw := range rec {
			cells[i] = ParseCell(raw)
		}
		doc.AppendRow(cells)
	}
	return doc, nil
}

// blankLines counts the empty lines at the start of b, the ones
// encoding/csv skips.
func blankLines(b []byte) int {
	n := 0
	for {
		switch {
		case len(b) > 0 && b[0] == '\n':
			b = b[1:]
		case len(b) > 1 && b[0] == '\r' && b[1] == '\n':
			b = b[2:]
		default:
			return n
		}
		n++
	}
}

func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	copy(out, raw)
	return out
}
