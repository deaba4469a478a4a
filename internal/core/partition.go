package core

import (
	"strings"

	"github.com/JonMunkholm/contractcheck/internal/table"
)

// Dataset is one named block of a contract after forward-fill.
type Dataset struct {
	Name string
	Rows []table.Row

	// Start and End are positions in the filled document of the first and
	// last row carrying this name, inclusive.
	Start, End int

	// Attributes and AttributeClassifications are sliced from Start..End of
	// the filled document.
	Attributes               []string
	AttributeClassifications []string
}

// Partition is a contract split into datasets.
type Partition struct {
	Doc      *table.Document // filled document the datasets point into
	Datasets []Dataset
}

// PartitionDocument drops fully empty rows, forward-fills every column and
// groups rows by the filled Dataset Name in first-seen order. Rows above the
// first dataset name have no name and belong to no dataset.
//
// The Start..End span uses the first and last row of a name. When a name
// reappears after another dataset, the span covers the rows in between too.
func PartitionDocument(doc *table.Document) *Partition {
	filled := doc.DropEmptyRows().FillDown()
	p := &Partition{Doc: filled}

	index := make(map[string]int)
	for pos, row := range filled.Rows {
		cell := filled.Value(row, ColDatasetName)
		if cell.IsAbsent() {
			continue
		}
		name := cell.String()

		i, seen := index[name]
		if !seen {
			i = len(p.Datasets)
			index[name] = i
			p.Datasets = append(p.Datasets, Dataset{Name: name, Start: pos})
		}
		ds := &p.Datasets[i]
		ds.Rows = append(ds.Rows, row)
		ds.End = pos
	}

	for i := range p.Datasets {
		ds := &p.Datasets[i]
		span := filled.Rows[ds.Start : ds.End+1]
		ds.Attributes = columnStrings(filled, span, ColAttribute)
		ds.AttributeClassifications = columnStrings(filled, span, ColAttributeClassification)
	}
	return p
}

// Contiguous reports whether every row between Start and End belongs to
// the dataset.
func (d Dataset) Contiguous() bool {
	return len(d.Rows) == d.End-d.Start+1
}

func columnStrings(doc *table.Document, rows []table.Row, column string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = doc.Value(row, column).String()
	}
	return out
}

// SampleBaseName converts a dataset name to the file name stem used for
// sample files: words are capitalised and joined ("customer orders" becomes
// "CustomerOrders").
func SampleBaseName(dataset string) string {
	words := strings.FieldsFunc(strings.TrimSpace(dataset), func(r rune) bool {
		return !isWordRune(r)
	})
	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		b.WriteString(strings.ToUpper(string(runes[0])))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
