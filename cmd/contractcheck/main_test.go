package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"issues", errIssuesFound, exitIssues},
		{"config", errors.New("config validation: CONTRACT_DIR is required"), exitFatalConf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	env := map[string]string{"CONTRACT_DIR": "from-env", "LOG_LEVEL": "warn"}
	get := withOverrides(func(k string) string { return env[k] }, map[string]string{
		"CONTRACT_DIR": "from-flag",
		"LOG_LEVEL":    "",
	})

	if got := get("CONTRACT_DIR"); got != "from-flag" {
		t.Errorf("CONTRACT_DIR = %q, want from-flag", got)
	}
	if got := get("LOG_LEVEL"); got != "warn" {
		t.Errorf("LOG_LEVEL = %q, want warn (empty flag keeps env)", got)
	}
	if got := get("UNSET"); got != "" {
		t.Errorf("UNSET = %q, want empty", got)
	}
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	issues := &core.FileReport{Datasets: []core.DatasetIssueReport{{
		DatasetName: "orders",
		AllIssue:    []core.CategoryIssues{{Location: "Format", Issues: []core.Issue{{}, {}}}},
	}}}
	fatal := &core.FileReport{Fatal: true}

	tests := []struct {
		name    string
		results []core.FileResult
		wantBad bool
		want    string
	}{
		{"clean", []core.FileResult{{File: "a.xlsx", Report: &core.FileReport{}}}, false, "✓ a.xlsx: no issues"},
		{"issues", []core.FileResult{{File: "b.xlsx", Report: issues}}, true, "⚠ b.xlsx: 2 issue(s) in 1 dataset(s)"},
		{"fatal", []core.FileResult{{
			File:   "c.xlsx",
			Report: fatal,
			Err:    &core.FatalError{Code: "ENT001", Err: core.ErrEntityNotFound},
		}}, true, "✗ c.xlsx: stopped, Entity is not registered in the entity directory (Code: ENT001). Register the entity or fix the file name prefix"},
		{"error", []core.FileResult{{
			File:   "d.xlsx",
			Report: &core.FileReport{},
			Err:    fmt.Errorf("read contract d.xlsx: %w", os.ErrNotExist),
		}}, true, "✗ d.xlsx: Contract file could not be read (Code: FILE001). Check the path and that the file is a valid xlsx or csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := printSummary(&buf, tt.results); got != tt.wantBad {
				t.Errorf("printSummary() = %v, want %v", got, tt.wantBad)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLoadCatalogFallback(t *testing.T) {
	cat, err := loadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if len(cat.Header()) == 0 {
		t.Error("fallback catalog has no header")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadCatalog(bad); err == nil {
		t.Error("expected error for malformed catalog")
	}
}
