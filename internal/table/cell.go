// Package table holds the in-memory form of a contract sheet.
//
// A Document is an ordered list of rows keyed by a fixed column set. Cells are
// tri-state: text, number, or absent. Absent is a distinct kind, never an
// empty string or a sentinel text value, so a cell that literally reads "nan"
// is still text.
package table

import (
	"strconv"
	"strings"
)

// CellKind distinguishes the three states a cell can be in.
type CellKind uint8

const (
	KindAbsent CellKind = iota
	KindText
	KindNumber
)

// Cell is a single spreadsheet value.
type Cell struct {
	kind CellKind
	text string
	num  float64
}

// Absent returns an empty cell.
func Absent() Cell { return Cell{} }

// Text returns a text cell. An empty string is still a present value;
// readers decide whether blank input means Absent.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{kind: KindNumber, num: f} }

// Kind reports the cell state.
func (c Cell) Kind() CellKind { return c.kind }

// IsAbsent reports whether the cell carries no value.
func (c Cell) IsAbsent() bool { return c.kind == KindAbsent }

// IsPresent is the negation of IsAbsent.
func (c Cell) IsPresent() bool { return c.kind != KindAbsent }

// String renders the cell value. Numbers use the shortest representation
// ("10", "12.5"); absent cells render as "".
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// EqualFold compares the rendered value case-insensitively.
// Absent cells never match.
func (c Cell) EqualFold(s string) bool {
	if c.IsAbsent() {
		return false
	}
	return strings.EqualFold(c.String(), s)
}

// ParseCell converts raw reader output into a Cell. Blank input is absent,
// anything else stays text.
func ParseCell(raw string) Cell {
	if raw == "" {
		return Absent()
	}
	return Text(raw)
}
