package table

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"absent", Absent(), ""},
		{"text", Text("Yes"), "Yes"},
		{"integer number", Number(10), "10"},
		{"fractional number", Number(12.5), "12.5"},
		{"nan text stays text", Text("nan"), "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellEqualFold(t *testing.T) {
	if Absent().EqualFold("") {
		t.Error("absent cell must not match the empty string")
	}
	if !Text("insupd").EqualFold("INSUPD") {
		t.Error("EqualFold should ignore case")
	}
	if Text("nan").IsAbsent() {
		t.Error("literal nan text must be present")
	}
}

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{703, "AAA"},
		{0, ""},
	}

	for _, tt := range tests {
		if got := ColumnLetters(tt.n); got != tt.want {
			t.Errorf("ColumnLetters(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLocate(t *testing.T) {
	doc := NewDocument([]string{"Dataset Name", "Attribute"}, DefaultHeaderRow)

	// Header on sheet row 3, first data row on sheet row 4.
	if got, want := doc.Locate("Attribute", 0), "B4"; got != want {
		t.Errorf("Locate() = %q, want %q", got, want)
	}
	if got, want := doc.Locate("Dataset Name", 9), "A13"; got != want {
		t.Errorf("Locate() = %q, want %q", got, want)
	}
	if got, want := doc.Locate("Unknown", 0), "Row 4"; got != want {
		t.Errorf("Locate() = %q, want %q", got, want)
	}
}

func TestDropEmptyRowsAndFillDown(t *testing.T) {
	doc := NewDocument([]string{"Dataset Name", "Attribute", "Service"}, 0)
	doc.AppendRow([]Cell{Text("orders"), Text("id"), Text("sales")})
	doc.AppendRow([]Cell{Absent(), Absent(), Absent()})
	doc.AppendRow([]Cell{Absent(), Text("amount")})
	doc.AppendRow([]Cell{Text("items"), Text("sku"), Absent()})

	filled := doc.DropEmptyRows().FillDown()

	if got := len(filled.Rows); got != 3 {
		t.Fatalf("len(Rows) = %d, want 3", got)
	}

	second := filled.Rows[1]
	if second.Index != 2 {
		t.Errorf("Index = %d, want 2 (stable after drop)", second.Index)
	}
	if got := filled.Value(second, "Dataset Name").String(); got != "orders" {
		t.Errorf("filled Dataset Name = %q, want orders", got)
	}
	if got := filled.Value(filled.Rows[2], "Service").String(); got != "sales" {
		t.Errorf("filled Service = %q, want sales", got)
	}

	// The source document is untouched.
	if !doc.Value(doc.Rows[2], "Dataset Name").IsAbsent() {
		t.Error("FillDown must not mutate the source document")
	}
}

func TestMissingColumns(t *testing.T) {
	doc := NewDocument([]string{"Dataset Name", "Atribute", "Service"}, 0)

	missing, unexpected := doc.MissingColumns([]string{"Dataset Name", "Attribute", "Service"})
	if got := strings.Join(missing, ","); got != "Attribute" {
		t.Errorf("missing = %q, want Attribute", got)
	}
	if got := strings.Join(unexpected, ","); got != "Atribute" {
		t.Errorf("unexpected = %q, want Atribute", got)
	}
}

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFtitle\n" +
		"subtitle\n" +
		"Dataset Name,Attribute,Attribute Size\n" +
		"orders,id,10\n" +
		",amount,\n"

	doc, err := ReadCSV(strings.NewReader(input), 2)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := strings.Join(doc.Columns, "|"); got != "Dataset Name|Attribute|Attribute Size" {
		t.Errorf("Columns = %q", got)
	}
	if got := len(doc.Rows); got != 2 {
		t.Fatalf("len(Rows) = %d, want 2", got)
	}
	if !doc.Value(doc.Rows[1], "Dataset Name").IsAbsent() {
		t.Error("blank csv cell should be absent")
	}
	if got := doc.Locate("Attribute", 1); got != "B5" {
		t.Errorf("Locate() = %q, want B5", got)
	}
}

func TestReadCSVBlankLinesKeepRowNumbers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		headerRow int
		want      []string // Attribute location of each non-empty data row
	}{
		{"blank between rows", "d1\nd2\nA,B\nx,1\n\ny,2\n", 2, []string{"A4", "A6"}},
		{"crlf blanks", "d1\r\nd2\r\nA,B\r\nx,1\r\n\r\n\r\ny,2\r\n", 2, []string{"A4", "A7"}},
		{"blank before header", "\nd2\nA,B\nx,1\n", 2, []string{"A4"}},
		{"quoted newline is one row", "d1\nd2\nA,B\n\"x\ny\",1\nz,2\n", 2, []string{"A4", "A5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadCSV(strings.NewReader(tt.input), tt.headerRow)
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if got := strings.Join(doc.Columns, ","); got != "A,B" {
				t.Fatalf("Columns = %q, want A,B", got)
			}
			rows := doc.DropEmptyRows().Rows
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i, want := range tt.want {
				if got := doc.Locate("A", rows[i].Index); got != want {
					t.Errorf("row %d: Locate() = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestReadCSVNoHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("only,one\n"), 2)
	if !errors.Is(err, ErrNoHeader) {
		t.Errorf("ReadCSV() error = %v, want ErrNoHeader", err)
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACME_orders_SPRINT1.xlsx")
	sheet := "Metadata Template"

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatal(err)
	}
	rows := [][]any{
		{"Data Contract"},
		{"v1"},
		{"Dataset Name", "Attribute", "Attribute Size"},
		{"orders", "id", 10},
		{nil, "amount", "12,2"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	doc, err := ReadXLSX(path, Options{Sheet: sheet, HeaderRow: DefaultHeaderRow})
	if err != nil {
		t.Fatalf("ReadXLSX() error = %v", err)
	}
	if got := len(doc.Rows); got != 2 {
		t.Fatalf("len(Rows) = %d, want 2", got)
	}

	size := doc.Value(doc.Rows[0], "Attribute Size")
	if size.Kind() != KindNumber || size.String() != "10" {
		t.Errorf("size cell = %v %q, want number 10", size.Kind(), size.String())
	}
	if got := doc.Value(doc.Rows[1], "Attribute Size").String(); got != "12,2" {
		t.Errorf("size cell = %q, want 12,2", got)
	}
	if !doc.Value(doc.Rows[1], "Dataset Name").IsAbsent() {
		t.Error("empty xlsx cell should be absent")
	}

	_, err = ReadXLSX(path, Options{Sheet: "Nope", HeaderRow: 2})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ReadXLSX() error = %v, want ErrSheetNotFound", err)
	}
}
