package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/logging"
	"github.com/JonMunkholm/contractcheck/internal/table"
)

// EntityDirectory resolves the entity prefix of a contract file name to the
// approved entity identifier. Unknown names return ErrEntityNotFound.
type EntityDirectory interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// CheckerConfig locates contracts and their sample files.
type CheckerConfig struct {
	Dir                 string // contracts live in Dir/<ENTITY>/<file>
	Sheet               string // workbook sheet holding the contract
	HeaderRow           int    // zero-based header row
	SampleDirName       string // sample files live in Dir/<ENTITY>/<SampleDirName>
	SampleEncodingLines int
}

// File check outcomes reported to the Recorder.
const (
	StatusClean  = "clean"
	StatusIssues = "issues"
	StatusFatal  = "fatal"
	StatusError  = "error"
)

var sprintPattern = regexp.MustCompile(`(?i)^sprint[0-9]+`)

// Checker runs the file-level checks and the validation engine on contract
// files.
type Checker struct {
	catalog  *catalog.Catalog
	entities EntityDirectory
	cfg      CheckerConfig
	detector EncodingDetector
	sniffer  DelimiterSniffer
	recorder Recorder
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithSampleInspection enables sample file checks using the given
// encoding detector and delimiter sniffer.
func WithSampleInspection(d EncodingDetector, s DelimiterSniffer) CheckerOption {
	return func(c *Checker) {
		c.detector = d
		c.sniffer = s
	}
}

// WithRecorder reports metrics for every checked file.
func WithRecorder(r Recorder) CheckerOption {
	return func(c *Checker) { c.recorder = r }
}

// NewChecker creates a checker.
func NewChecker(cat *catalog.Catalog, entities EntityDirectory, cfg CheckerConfig, opts ...CheckerOption) *Checker {
	if cfg.HeaderRow < 0 {
		cfg.HeaderRow = table.DefaultHeaderRow
	}
	c := &Checker{
		catalog:  cat,
		entities: entities,
		cfg:      cfg,
		recorder: NopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check validates one contract file. The returned report is never nil; on a
// fatal condition it holds the partial result and err is a *FatalError.
func (c *Checker) Check(ctx context.Context, file string) (report *FileReport, err error) {
	start := time.Now()
	base := filepath.Base(file)
	report = &FileReport{
		Contract:  base,
		RunID:     uuid.NewString(),
		CheckedAt: start,
	}

	ctx = logging.ContextWithRunID(ctx, report.RunID)
	ctx = logging.ContextWithContract(ctx, base)
	logger := logging.FromContext(ctx)
	logger.Info("contract check started")

	defer func() {
		status := statusOf(report, err)
		c.recorder.ObserveFile(status, time.Since(start))
		logger.Info("contract check finished",
			"status", status,
			"issues", report.IssueCount(),
			"duration", time.Since(start),
		)
	}()

	entity, err := c.resolveEntity(ctx, base, report, logger)
	if err != nil {
		return report, err
	}
	report.Entity = entity

	c.checkFileName(base, report, logger)

	path := filepath.Join(c.cfg.Dir, entity, base)
	doc, err := table.ReadFile(path, table.Options{Sheet: c.cfg.Sheet, HeaderRow: c.cfg.HeaderRow})
	if err != nil {
		return report, fmt.Errorf("read contract %s: %w", path, err)
	}

	if err := c.checkHeader(doc, report, logger); err != nil {
		return report, err
	}

	engine := NewEngine(c.catalog, c.engineOptions(entity, logger)...)
	datasets, err := engine.Validate(ctx, doc, entity)
	if err != nil {
		return report, fmt.Errorf("validate contract: %w", err)
	}

	report.Datasets = Assemble(datasets)
	report.OtherIssues = DedupIssues(report.OtherIssues)
	for _, ds := range report.Datasets {
		for _, cat := range ds.AllIssue {
			c.recorder.ObserveIssues(cat.Location, len(cat.Issues))
		}
	}
	return report, nil
}

func (c *Checker) engineOptions(entity string, logger *slog.Logger) []EngineOption {
	opts := []EngineOption{WithLogger(logger)}
	if c.detector != nil && c.sniffer != nil {
		opts = append(opts, WithSampleValidator(&SampleValidator{
			Dir:           filepath.Join(c.cfg.Dir, entity, c.cfg.SampleDirName),
			Encoding:      c.detector,
			Delimiters:    c.sniffer,
			EncodingLines: c.cfg.SampleEncodingLines,
		}))
	}
	return opts
}

// resolveEntity takes the entity from the file name prefix ("ACME_orders_SPRINT1.xlsx")
// and confirms it with the entity directory.
func (c *Checker) resolveEntity(ctx context.Context, base string, report *FileReport, logger *slog.Logger) (string, error) {
	prefix, _, ok := strings.Cut(base, "_")
	if !ok || prefix == "" {
		return "", c.fatal(report, logger, "ENT002", ErrEntityNameMissing, Issue{
			IssueValue:    "The issue in name of Entity Name in FileName",
			ExpectedValue: "ENTITY_NAME_CONTRACTNAME_SPRINT5.xlsx",
			ActualValue:   base,
			Location:      "Entity Name Check",
			IssueDesc:     "Check the entity name in the entity directory or the file name spelling.",
		})
	}

	name := strings.ToUpper(prefix)
	entity, err := c.entities.Lookup(ctx, name)
	if errors.Is(err, ErrEntityNotFound) {
		return "", c.fatal(report, logger, "ENT001", ErrEntityNotFound, Issue{
			IssueValue:    "ENTITY does not exist in the entity directory",
			ExpectedValue: "ENTITY should be registered as: " + name,
			ActualValue:   name,
			Location:      "ENTITY Check in DB",
			IssueDesc:     "Add the new ENTITY to the entity directory or check the ENTITY name spelling.",
		})
	}
	if err != nil {
		return "", fmt.Errorf("entity lookup %s: %w", name, err)
	}
	logger.Info("entity resolved", "entity", entity)
	return entity, nil
}

// checkFileName requires the file name to end with a sprint marker
// ("..._SPRINT5.xlsx"). A violation is reported but does not stop the check.
func (c *Checker) checkFileName(base string, report *FileReport, logger *slog.Logger) {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	sprint := stem[strings.LastIndex(stem, "_")+1:]
	if sprintPattern.MatchString(sprint) {
		return
	}
	is := Issue{
		Type:          SeverityError,
		IssueValue:    "The issue exists in name of Data Contract File",
		ExpectedValue: "ENTITYNAME_FILENAME_SPRINT_NUMBER.xlsx",
		ActualValue:   base,
		Location:      "File Name Check",
		IssueDesc:     "The issue can be with the spelling or structure of the Data Contract name.",
	}
	report.OtherIssues = append(report.OtherIssues, is)
	logger.Error(is.IssueValue, "location", is.Location, "actual", is.ActualValue)
}

// checkHeader requires every catalog column. Extra columns are listed in the
// issue but are not an error on their own.
func (c *Checker) checkHeader(doc *table.Document, report *FileReport, logger *slog.Logger) error {
	missing, unexpected := doc.MissingColumns(c.catalog.Header())
	if len(missing) == 0 {
		logger.Debug("contract header matches catalog")
		return nil
	}
	return c.fatal(report, logger, "HDR001", ErrHeaderMismatch, Issue{
		IssueValue:    "The issue exists at the header of the Data Contract",
		ExpectedValue: strings.Join(missing, ", "),
		ActualValue:   strings.Join(unexpected, ", "),
		Location:      "Header Check",
		IssueDesc:     "The issue can be with the spelling or spaces or a missing column in the Data Contract.",
	})
}

func (c *Checker) fatal(report *FileReport, logger *slog.Logger, code string, err error, is Issue) error {
	is.Type = SeverityError
	report.OtherIssues = append(report.OtherIssues, is)
	report.Fatal = true
	logger.Error(is.IssueValue,
		"code", code,
		"location", is.Location,
		"expected", is.ExpectedValue,
		"actual", is.ActualValue,
	)
	return &FatalError{Code: code, Issue: is, Err: err}
}

func statusOf(report *FileReport, err error) string {
	switch {
	case IsFatal(err):
		return StatusFatal
	case err != nil:
		return StatusError
	case report.HasIssues():
		return StatusIssues
	default:
		return StatusClean
	}
}

// FileResult is the outcome of one file in CheckFiles.
type FileResult struct {
	File   string
	Report *FileReport
	Err    error
}

// CheckFiles checks several contracts, at most limit at a time. Files are
// independent: a failure in one does not stop the others. Results keep the
// order of files.
func (c *Checker) CheckFiles(ctx context.Context, files []string, limit int) []FileResult {
	results := make([]FileResult, len(files))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, file := range files {
		g.Go(func() error {
			report, err := c.Check(ctx, file)
			results[i] = FileResult{File: file, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
