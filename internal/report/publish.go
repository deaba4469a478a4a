package report

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/logging"
)

// IssueWriter stores the raw issues of a report and returns where.
type IssueWriter interface {
	Save(report *core.FileReport) (string, error)
}

// IssueSink receives every finished report, e.g. for database persistence.
type IssueSink interface {
	Save(ctx context.Context, report *core.FileReport) error
}

// Publisher writes a finished report to every configured output. Empty
// fields are skipped.
type Publisher struct {
	Issues  IssueWriter
	HTMLDir string
	Sink    IssueSink
}

// Published lists the files written for one report.
type Published struct {
	IssuesPath string
	HTMLPath   string
}

// Publish writes rep. Outputs are written in order and the first failure
// stops the rest.
func (p *Publisher) Publish(ctx context.Context, rep *core.FileReport) (Published, error) {
	var out Published
	logger := logging.FromContext(ctx)

	if p.Issues != nil {
		path, err := p.Issues.Save(rep)
		if err != nil {
			return out, fmt.Errorf("save issues: %w", err)
		}
		out.IssuesPath = path
		logger.Info("issues saved", "path", path)
	}

	if p.HTMLDir != "" {
		path, err := WriteHTML(ctx, p.HTMLDir, rep)
		if err != nil {
			return out, err
		}
		out.HTMLPath = path
		logger.Info("report written", "path", path)
	}

	if p.Sink != nil {
		if err := p.Sink.Save(ctx, rep); err != nil {
			return out, fmt.Errorf("persist issues: %w", err)
		}
		logger.Debug("issues persisted", "run_id", rep.RunID)
	}
	return out, nil
}
