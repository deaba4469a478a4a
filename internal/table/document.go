package table

import "strconv"

// DefaultHeaderRow is the zero-based sheet row of the column header.
// Two descriptive rows precede it in the contract template.
const DefaultHeaderRow = 2

// Row is one data row. Index is the row's position in the sheet's data area
// as read, and stays stable when rows are dropped or filled.
type Row struct {
	Index int
	Cells []Cell
}

// Document is a sheet read into memory. Every row has exactly len(Columns) cells.
type Document struct {
	Columns   []string
	Rows      []Row
	HeaderRow int

	colIdx map[string]int
	next   int
}

// NewDocument creates an empty document with the given header.
func NewDocument(columns []string, headerRow int) *Document {
	d := &Document{
		Columns:   append([]string(nil), columns...),
		HeaderRow: headerRow,
		colIdx:    make(map[string]int, len(columns)),
	}
	for i, name := range d.Columns {
		// First occurrence wins for duplicated headers.
		if _, ok := d.colIdx[name]; !ok {
			d.colIdx[name] = i
		}
	}
	return d
}

// AppendRow adds a row, padding missing trailing cells with Absent and
// dropping cells beyond the header width.
func (d *Document) AppendRow(cells []Cell) {
	row := make([]Cell, len(d.Columns))
	copy(row, cells)
	d.Rows = append(d.Rows, Row{Index: d.next, Cells: row})
	d.next++
}

// ColumnIndex returns the position of a column.
func (d *Document) ColumnIndex(name string) (int, bool) {
	i, ok := d.colIdx[name]
	return i, ok
}

// HasColumn reports whether the header contains name.
func (d *Document) HasColumn(name string) bool {
	_, ok := d.colIdx[name]
	return ok
}

// Value returns the cell of row in the named column, or Absent when the
// column does not exist.
func (d *Document) Value(row Row, column string) Cell {
	i, ok := d.colIdx[column]
	if !ok || i >= len(row.Cells) {
		return Absent()
	}
	return row.Cells[i]
}

// Locate returns the spreadsheet cell reference ("F12") for a column and a
// row index. Unknown columns fall back to "Row N".
func (d *Document) Locate(column string, rowIndex int) string {
	sheetRow := rowIndex + d.HeaderRow + 2
	i, ok := d.colIdx[column]
	if !ok {
		return "Row " + strconv.Itoa(sheetRow)
	}
	return ColumnLetters(i+1) + strconv.Itoa(sheetRow)
}

// ColumnLetters converts a 1-based column number to its letter form
// (1 -> A, 27 -> AA).
func ColumnLetters(n int) string {
	if n <= 0 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append(b, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// DropEmptyRows returns a copy without rows whose cells are all absent.
func (d *Document) DropEmptyRows() *Document {
	out := d.cloneHeader()
	for _, row := range d.Rows {
		if isEmptyRow(row) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// FillDown returns a copy in which every absent cell takes the nearest
// preceding present value of the same column. Cells above the first value
// stay absent.
func (d *Document) FillDown() *Document {
	out := d.cloneHeader()
	last := make([]Cell, len(d.Columns))
	for _, row := range d.Rows {
		cells := make([]Cell, len(row.Cells))
		for i, c := range row.Cells {
			if c.IsAbsent() {
				c = last[i]
			} else {
				last[i] = c
			}
			cells[i] = c
		}
		out.Rows = append(out.Rows, Row{Index: row.Index, Cells: cells})
	}
	return out
}

// MissingColumns lists required names absent from the header, and header
// names that are not in required. Both keep their input order.
func (d *Document) MissingColumns(required []string) (missing, unexpected []string) {
	want := make(map[string]bool, len(required))
	for _, name := range required {
		want[name] = true
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	for _, name := range d.Columns {
		if !want[name] {
			unexpected = append(unexpected, name)
		}
	}
	return missing, unexpected
}

func (d *Document) cloneHeader() *Document {
	out := NewDocument(d.Columns, d.HeaderRow)
	out.next = d.next
	out.Rows = make([]Row, 0, len(d.Rows))
	return out
}

func isEmptyRow(row Row) bool {
	for _, c := range row.Cells {
		if c.IsPresent() {
			return false
		}
	}
	return true
}
