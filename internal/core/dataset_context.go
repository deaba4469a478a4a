package core

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/table"
)

// ErrAlreadyFinalized is returned by a second call to Finalize.
var ErrAlreadyFinalized = errors.New("dataset context already finalized")

// Cursor is the position of the current row within its dataset.
// Index is 1-based; Index == Total on the last row.
type Cursor struct {
	Index int
	Total int
}

// Last reports whether the cursor is on the dataset's final row.
func (c Cursor) Last() bool { return c.Index == c.Total }

// RowView is one row of a dataset as seen by a rule.
type RowView struct {
	doc *table.Document
	row table.Row
}

// NewRowView binds a row to the document it belongs to.
func NewRowView(doc *table.Document, row table.Row) RowView {
	return RowView{doc: doc, row: row}
}

// Value returns the row's cell in column.
func (r RowView) Value(column string) table.Cell {
	return r.doc.Value(r.row, column)
}

// Locate returns the spreadsheet reference of column in this row.
func (r RowView) Locate(column string) string {
	return r.doc.Locate(column, r.row.Index)
}

// Index is the row's position in the sheet's data area.
func (r RowView) Index() int { return r.row.Index }

type deferredIssue struct {
	category Category
	issue    Issue
}

// ValidationContext holds the state accumulated while the rows of one
// dataset are checked. A context is created per dataset and never shared.
type ValidationContext struct {
	Dataset Dataset
	Catalog *catalog.Catalog

	logger *slog.Logger
	cursor Cursor
	last   RowView

	merged   map[string][]table.Cell
	deferred map[string][]deferredIssue
	buffers  [categoryCount][]Issue
	once     map[string]bool

	delimiter    string
	hasDelimiter bool

	finalized bool
}

// NewValidationContext creates the context for one dataset.
func NewValidationContext(ds Dataset, cat *catalog.Catalog, logger *slog.Logger) *ValidationContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationContext{
		Dataset:  ds,
		Catalog:  cat,
		logger:   logger,
		cursor:   Cursor{Total: len(ds.Rows)},
		merged:   make(map[string][]table.Cell),
		deferred: make(map[string][]deferredIssue),
		once:     make(map[string]bool),
	}
}

// Cursor returns the current row position.
func (vc *ValidationContext) Cursor() Cursor { return vc.cursor }

// LastRow returns the most recently visited row.
func (vc *ValidationContext) LastRow() RowView { return vc.last }

// Visit moves the cursor onto row. The engine calls it before running the
// rules for that row.
func (vc *ValidationContext) Visit(row RowView) {
	vc.cursor.Index++
	vc.last = row
}

// Add appends an issue to a category buffer.
func (vc *ValidationContext) Add(cat Category, issue Issue) {
	if issue.Type == "" {
		issue.Type = SeverityError
	}
	vc.buffers[cat] = append(vc.buffers[cat], issue)
	vc.logIssue(cat, issue)
}

// AddOnce appends an issue unless one was already recorded under key.
// It returns whether the issue was added.
func (vc *ValidationContext) AddOnce(cat Category, key string, issue Issue) bool {
	if vc.once[key] {
		return false
	}
	vc.once[key] = true
	vc.Add(cat, issue)
	return true
}

// Accumulate records a merge-sensitive value for column.
func (vc *ValidationContext) Accumulate(column string, cell table.Cell) {
	vc.merged[column] = append(vc.merged[column], cell)
}

// Values returns the values accumulated for column so far.
func (vc *ValidationContext) Values(column string) []table.Cell {
	return vc.merged[column]
}

// AnyPresent reports whether any accumulated value of column is present.
func (vc *ValidationContext) AnyPresent(column string) bool {
	for _, c := range vc.merged[column] {
		if c.IsPresent() {
			return true
		}
	}
	return false
}

// AnyEqualFold reports whether any accumulated value of column equals s,
// ignoring case.
func (vc *ValidationContext) AnyEqualFold(column, s string) bool {
	for _, c := range vc.merged[column] {
		if c.EqualFold(s) {
			return true
		}
	}
	return false
}

// DeferMerge records a "value must be declared" issue for column. Deferred
// issues are kept at Finalize only when no row of the dataset carried a
// value for the column.
func (vc *ValidationContext) DeferMerge(column string, cat Category, issue Issue) {
	if issue.Type == "" {
		issue.Type = SeverityError
	}
	vc.deferred[column] = append(vc.deferred[column], deferredIssue{category: cat, issue: issue})
}

// SetDelimiter stores the dataset's resolved delimiter. Only the first call
// has an effect.
func (vc *ValidationContext) SetDelimiter(d string) {
	if vc.hasDelimiter {
		return
	}
	vc.delimiter = d
	vc.hasDelimiter = true
}

// Delimiter returns the resolved delimiter and whether one was declared.
func (vc *ValidationContext) Delimiter() (string, bool) {
	return vc.delimiter, vc.hasDelimiter
}

// Finalize flushes the buffers into the dataset report. Categories appear in
// report order; empty categories are omitted. It may be called only once.
func (vc *ValidationContext) Finalize() (DatasetIssueReport, error) {
	if vc.finalized {
		return DatasetIssueReport{}, ErrAlreadyFinalized
	}
	vc.finalized = true

	columns := make([]string, 0, len(vc.deferred))
	for column := range vc.deferred {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	for _, column := range columns {
		if vc.AnyPresent(column) {
			continue
		}
		for _, d := range vc.deferred[column] {
			vc.Add(d.category, d.issue)
		}
	}

	report := DatasetIssueReport{DatasetName: vc.Dataset.Name}
	for _, cat := range Categories() {
		if issues := vc.buffers[cat]; len(issues) > 0 {
			report.AllIssue = append(report.AllIssue, CategoryIssues{
				Location: cat.Label(),
				Issues:   issues,
			})
		}
	}
	return report, nil
}

func (vc *ValidationContext) logIssue(cat Category, issue Issue) {
	vc.logger.Error(issue.IssueValue,
		"category", cat.Label(),
		"location", issue.Location,
		"expected", issue.ExpectedValue,
		"actual", issue.ActualValue,
	)
}

// MandatoryValue is the actual value reported for a missing mandatory field.
const MandatoryValue = "*This field is mandatory"

// Actual renders a cell for an issue's actual value.
func Actual(c table.Cell) string {
	if c.IsAbsent() {
		return MandatoryValue
	}
	return c.String()
}

// LowerTrim normalises a value for comparisons that ignore case and padding.
func LowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
