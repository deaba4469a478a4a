package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Severity of an issue. Every rule currently reports errors.
type Severity string

const SeverityError Severity = "ERROR"

// Issue is a single rule violation. It is not modified after creation.
type Issue struct {
	Type          Severity `json:"type" yaml:"type"`
	IssueValue    string   `json:"issueValue" yaml:"issueValue"`
	ExpectedValue string   `json:"expectedValue" yaml:"expectedValue"`
	ActualValue   string   `json:"actualValue" yaml:"actualValue"`
	Location      string   `json:"location" yaml:"location"`
	IssueDesc     string   `json:"issueDesc" yaml:"issueDesc"`
}

// CategoryIssues is one category block of a dataset report.
type CategoryIssues struct {
	Location string  `json:"Location" yaml:"Location"`
	Issues   []Issue `json:"issues" yaml:"issues"`
}

// DatasetIssueReport collects every issue found for one dataset, grouped by
// category in report order.
type DatasetIssueReport struct {
	DatasetName string           `json:"DatasetName" yaml:"DatasetName"`
	AllIssue    []CategoryIssues `json:"allIssue" yaml:"allIssue"`
}

// Empty reports whether the dataset has no issues.
func (r DatasetIssueReport) Empty() bool { return len(r.AllIssue) == 0 }

// IssueCount returns the number of issues across all categories.
func (r DatasetIssueReport) IssueCount() int {
	n := 0
	for _, c := range r.AllIssue {
		n += len(c.Issues)
	}
	return n
}

// Category returns the issues of the category with the given label.
func (r DatasetIssueReport) Category(label string) ([]Issue, bool) {
	for _, c := range r.AllIssue {
		if c.Location == label {
			return c.Issues, true
		}
	}
	return nil, false
}

// FileReport is the outcome of checking one contract file.
type FileReport struct {
	Contract    string               `json:"contract" yaml:"contract"`
	Entity      string               `json:"entity,omitempty" yaml:"entity,omitempty"`
	RunID       string               `json:"runId" yaml:"runId"`
	CheckedAt   time.Time            `json:"checkedAt" yaml:"checkedAt"`
	Datasets    []DatasetIssueReport `json:"datasets" yaml:"datasets"`
	OtherIssues []Issue              `json:"otherIssues" yaml:"otherIssues"`
	Fatal       bool                 `json:"fatal,omitempty" yaml:"fatal,omitempty"`
}

// HasIssues reports whether the contract produced any issue.
func (r *FileReport) HasIssues() bool {
	return len(r.Datasets) > 0 || len(r.OtherIssues) > 0
}

// IssueCount returns the total number of issues in the report.
func (r *FileReport) IssueCount() int {
	n := len(r.OtherIssues)
	for _, d := range r.Datasets {
		n += d.IssueCount()
	}
	return n
}

// Recorder receives validation metrics. A nil Recorder is never passed to
// callers; use NopRecorder instead.
type Recorder interface {
	ObserveFile(status string, duration time.Duration)
	ObserveIssues(category string, count int)
}

// NopRecorder discards all metrics.
type NopRecorder struct{}

func (NopRecorder) ObserveFile(string, time.Duration) {}
func (NopRecorder) ObserveIssues(string, int)         {}
