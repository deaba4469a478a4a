// Package store persists contract issue reports to files and to Postgres.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

// Output formats for FileStore.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const issuesSuffix = "_issues"

// ErrReportNotFound is returned by Load when no issues file exists for a contract.
var ErrReportNotFound = errors.New("report not found")

// FileStore writes one issues file per contract: <stem>_issues.json or .yaml.
type FileStore struct {
	Dir    string
	Format string
}

// NewFileStore creates a file store. An empty format means JSON.
func NewFileStore(dir, format string) (*FileStore, error) {
	format = strings.ToLower(format)
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported issues format %q", format)
	}
	return &FileStore{Dir: dir, Format: format}, nil
}

// Stem returns the contract file name without its extension.
func Stem(contract string) string {
	base := filepath.Base(contract)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path returns the issues file of a contract.
func (s *FileStore) Path(contract string) string {
	return filepath.Join(s.Dir, Stem(contract)+issuesSuffix+"."+s.Format)
}

// Save writes the report and returns the path written.
func (s *FileStore) Save(report *core.FileReport) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create issues dir: %w", err)
	}

	data, err := s.marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode issues %s: %w", report.Contract, err)
	}

	path := s.Path(report.Contract)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write issues %s: %w", path, err)
	}
	return path, nil
}

// Load reads the stored report of a contract. name may be the contract file
// name or its stem.
func (s *FileStore) Load(name string) (*core.FileReport, error) {
	return s.load(s.Path(name), name)
}

func (s *FileStore) load(path, name string) (*core.FileReport, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read issues %s: %w", name, err)
	}

	var report core.FileReport
	if s.Format == FormatYAML {
		err = yaml.Unmarshal(data, &report)
	} else {
		err = json.Unmarshal(data, &report)
	}
	if err != nil {
		return nil, fmt.Errorf("decode issues %s: %w", name, err)
	}
	return &report, nil
}

// Summary describes one stored report.
type Summary struct {
	Name      string    `json:"name"`
	Contract  string    `json:"contract"`
	Entity    string    `json:"entity,omitempty"`
	RunID     string    `json:"runId"`
	CheckedAt time.Time `json:"checkedAt"`
	Issues    int       `json:"issues"`
	Fatal     bool      `json:"fatal,omitempty"`
}

// List returns a summary of every stored report, newest first. Files that
// cannot be decoded are skipped.
func (s *FileStore) List() ([]Summary, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+issuesSuffix+"."+s.Format))
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	out := make([]Summary, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), issuesSuffix+"."+s.Format)
		report, err := s.load(m, name)
		if err != nil {
			continue
		}
		out = append(out, Summary{
			Name:      name,
			Contract:  report.Contract,
			Entity:    report.Entity,
			RunID:     report.RunID,
			CheckedAt: report.CheckedAt,
			Issues:    report.IssueCount(),
			Fatal:     report.Fatal,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CheckedAt.After(out[j].CheckedAt)
	})
	return out, nil
}

func (s *FileStore) marshal(report *core.FileReport) ([]byte, error) {
	if s.Format == FormatYAML {
		return yaml.Marshal(report)
	}
	return json.MarshalIndent(report, "", "    ")
}
