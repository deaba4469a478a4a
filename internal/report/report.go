// Package report renders contract issue reports as HTML. The markup lives
// in report.templ; run templ generate after editing it.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/store"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

const timeLayout = "2006-01-02 15:04:05 MST"

// status is the CSS class and label of a report outcome.
func status(fatal bool, issues int) string {
	switch {
	case fatal:
		return "fatal"
	case issues > 0:
		return "issues"
	default:
		return "clean"
	}
}

// WriteHTML renders the report into dir as <stem>_report.html and returns
// the path written.
func WriteHTML(ctx context.Context, dir string, r *core.FileReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, store.Stem(r.Contract)+"_report.html")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report %s: %w", path, err)
	}
	if err := Page(r).Render(ctx, f); err != nil {
		f.Close()
		return "", fmt.Errorf("render report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report %s: %w", path, err)
	}
	return path, nil
}
