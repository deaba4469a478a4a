package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

// otherCategory groups file-level issues that belong to no dataset.
const otherCategory = "Other Issues"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contract_runs (
    run_id      UUID PRIMARY KEY,
    contract    TEXT NOT NULL,
    entity      TEXT NOT NULL DEFAULT '',
    checked_at  TIMESTAMPTZ NOT NULL,
    fatal       BOOLEAN NOT NULL DEFAULT FALSE,
    issue_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contract_issues (
    id             BIGSERIAL PRIMARY KEY,
    run_id         UUID NOT NULL REFERENCES contract_runs(run_id) ON DELETE CASCADE,
    dataset        TEXT NOT NULL DEFAULT '',
    category       TEXT NOT NULL,
    severity       TEXT NOT NULL,
    issue_value    TEXT NOT NULL,
    expected_value TEXT NOT NULL,
    actual_value   TEXT NOT NULL,
    location       TEXT NOT NULL,
    issue_desc     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS contract_issues_run_id_idx ON contract_issues (run_id);
`

const insertRunSQL = `
INSERT INTO contract_runs (run_id, contract, entity, checked_at, fatal, issue_count)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertIssueSQL = `
INSERT INTO contract_issues
    (run_id, dataset, category, severity, issue_value, expected_value, actual_value, location, issue_desc)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	core.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres stores validation runs and their issues.
type Postgres struct {
	db TxBeginner
}

// NewPostgres creates a Postgres issue store.
func NewPostgres(db TxBeginner) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the run and issue tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure issue schema: %w", err)
	}
	return nil
}

// Save writes one run and all of its issues in a single transaction.
func (p *Postgres) Save(ctx context.Context, report *core.FileReport) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertRunSQL,
		report.RunID,
		report.Contract,
		report.Entity,
		report.CheckedAt,
		report.Fatal,
		report.IssueCount(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	rows := issueRows(report)
	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(insertIssueSQL,
				report.RunID,
				r.Dataset,
				r.Category,
				string(r.Issue.Type),
				r.Issue.IssueValue,
				r.Issue.ExpectedValue,
				r.Issue.ActualValue,
				r.Issue.Location,
				r.Issue.IssueDesc,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert issues for run %s: %w", report.RunID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run %s: %w", report.RunID, err)
	}
	return nil
}

// issueRow is one issue flattened for storage.
type issueRow struct {
	Dataset  string
	Category string
	Issue    core.Issue
}

// issueRows flattens a report: file-level issues first, then datasets in
// report order.
func issueRows(report *core.FileReport) []issueRow {
	rows := make([]issueRow, 0, report.IssueCount())
	for _, is := range report.OtherIssues {
		rows = append(rows, issueRow{Category: otherCategory, Issue: is})
	}
	for _, ds := range report.Datasets {
		for _, cat := range ds.AllIssue {
			for _, is := range cat.Issues {
				rows = append(rows, issueRow{Dataset: ds.DatasetName, Category: cat.Location, Issue: is})
			}
		}
	}
	return rows
}
