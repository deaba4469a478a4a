package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/table"
)

// Engine runs the registered rules over every dataset of a contract.
//
// Rows are processed strictly in document order. Each dataset gets its own
// ValidationContext, finalized once after its last row, so no state leaks
// from one dataset to the next.
type Engine struct {
	catalog *catalog.Catalog
	rules   []Rule
	sample  *SampleValidator
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRules replaces the registered rule set.
func WithRules(rules []Rule) EngineOption {
	return func(e *Engine) { e.rules = rules }
}

// WithSampleValidator enables sample file cross-validation.
func WithSampleValidator(s *SampleValidator) EngineOption {
	return func(e *Engine) { e.sample = s }
}

// WithLogger sets the logger issues are reported to.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine using the rules registered at init time.
func NewEngine(cat *catalog.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: cat,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules == nil {
		e.rules = Rules()
	}
	return e
}

// Validate partitions doc into datasets and checks each one. Only datasets
// with at least one issue appear in the result. entity prefixes sample file
// names.
func (e *Engine) Validate(ctx context.Context, doc *table.Document, entity string) ([]DatasetIssueReport, error) {
	part := PartitionDocument(doc)

	var reports []DatasetIssueReport
	for _, ds := range part.Datasets {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		report, err := e.validateDataset(part.Doc, ds, entity)
		if err != nil {
			return reports, fmt.Errorf("dataset %q: %w", ds.Name, err)
		}
		if !report.Empty() {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

func (e *Engine) validateDataset(doc *table.Document, ds Dataset, entity string) (DatasetIssueReport, error) {
	logger := e.logger.With("dataset", ds.Name)
	if !ds.Contiguous() {
		logger.Warn("dataset rows are not contiguous", "start", ds.Start, "end", ds.End, "rows", len(ds.Rows))
	}

	vc := NewValidationContext(ds, e.catalog, logger)
	for _, row := range ds.Rows {
		view := NewRowView(doc, row)
		vc.Visit(view)
		for _, rule := range e.rules {
			rule.Check(vc, view)
		}
	}
	for _, rule := range e.rules {
		if rule.Finalize != nil {
			rule.Finalize(vc)
		}
	}

	report, err := vc.Finalize()
	if err != nil {
		return report, err
	}

	if e.sample != nil {
		delimiter, declared := vc.Delimiter()
		issues := e.sample.Validate(entity, ds, delimiter, declared, logger)
		if len(issues) > 0 {
			report.AllIssue = append(report.AllIssue, CategoryIssues{
				Location: CategorySampleFiles.Label(),
				Issues:   issues,
			})
		}
	}
	return report, nil
}
