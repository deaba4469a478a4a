package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/contractcheck/internal/table"
)

// EncodingDetector guesses the character encoding of raw bytes and decodes
// them to UTF-8.
type EncodingDetector interface {
	Detect(head []byte) string
	Decode(label string, data []byte) ([]byte, error)
}

// DelimiterSniffer finds the field delimiter of delimited text.
type DelimiterSniffer interface {
	Sniff(text []byte) (string, error)
}

// Sample file defaults.
const (
	DefaultSampleEncodingLines = 5
	DefaultSampleMaxBytes      = 64 << 10
)

// sampleExtensions lists accepted sample file extensions in lookup order.
var sampleExtensions = []string{"csv", "txt", "kml"}

// SampleValidator compares a dataset with its sample data file.
type SampleValidator struct {
	Dir           string // directory holding the sample files
	Encoding      EncodingDetector
	Delimiters    DelimiterSniffer
	EncodingLines int   // lines fed to encoding detection
	MaxBytes      int64 // bytes read from the start of each sample file
}

// Validate checks the sample file of ds. Each kind of problem is reported
// at most once. When the sample directory does not exist no checks run.
func (s *SampleValidator) Validate(entity string, ds Dataset, delimiter string, declared bool, logger *slog.Logger) []Issue {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(s.Dir)
	if err != nil || !info.IsDir() {
		logger.Debug("sample directory not found, skipping sample checks", "dir", s.Dir)
		return nil
	}

	name := entity + "_" + SampleBaseName(ds.Name)
	c := &sampleCollector{name: name, logger: logger, seen: make(map[string]bool)}

	path, ext, ok := s.find(name)
	if !ok {
		c.add("missing", Issue{
			IssueValue:    "The sample file does not exist for dataset " + name,
			ExpectedValue: "A sample file named " + name + " should exist in the sample files directory",
			ActualValue:   "No sample file exists",
			IssueDesc:     "Every dataset needs a sample file named after its entity and dataset.",
		})
		return c.issues
	}

	data, err := readHead(path, s.maxBytes())
	if err != nil {
		c.readFailure(err)
		return c.issues
	}

	enc := s.Encoding.Detect(firstLines(data, s.encodingLines()))
	if !isUTF8Label(enc) {
		c.add("encoding", Issue{
			IssueValue:    "The sample file is not in UTF-8 format",
			ExpectedValue: "The sample file for dataset " + name + " needs to be in UTF-8 format.",
			ActualValue:   "Sample file encoding is: " + strings.ToUpper(enc),
			IssueDesc:     "The sample file is not in UTF-8 format",
		})
	}

	if ext == "kml" {
		return c.issues
	}

	text, err := s.Encoding.Decode(enc, data)
	if err != nil {
		c.readFailure(err)
		return c.issues
	}

	sniffed, err := s.Delimiters.Sniff(text)
	if err != nil {
		c.readFailure(err)
		return c.issues
	}

	want := NormalizeDelimiter(delimiter)
	if !declared || sniffed != want {
		c.add("delimiter", Issue{
			IssueValue:    fmt.Sprintf("The sample file delimiter is %q and the data contract delimiter is %q", sniffed, want),
			ExpectedValue: "The sample file delimiter should match the data contract.",
			ActualValue:   want,
			IssueDesc:     "The sample file delimiter should match the data contract.",
		})
	}

	header, err := readHeader(text, sniffed)
	if err != nil {
		c.readFailure(err)
		return c.issues
	}

	got := joinUpper(header)
	expected := joinUpper(ds.Attributes)
	if got != expected {
		c.add("header", Issue{
			IssueValue:    "The sample file column sequence does not match the data contract attributes",
			ExpectedValue: "The sample file column sequence should match the data contract attributes. The sequence should be " + expected,
			ActualValue:   got,
			IssueDesc:     "The sample file column sequence does not match the data contract attributes",
		})
	}
	return c.issues
}

// NormalizeDelimiter maps the contract token "tab" to a tab character.
func NormalizeDelimiter(d string) string {
	if strings.EqualFold(strings.TrimSpace(d), "tab") {
		return "\t"
	}
	return d
}

func (s *SampleValidator) find(name string) (path, ext string, ok bool) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", "", false
	}
	found := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem, x, hasExt := strings.Cut(e.Name(), ".")
		if hasExt && stem == name {
			found[x] = filepath.Join(s.Dir, e.Name())
		}
	}
	for _, x := range sampleExtensions {
		if p, ok := found[x]; ok {
			return p, x, true
		}
	}
	return "", "", false
}

func (s *SampleValidator) encodingLines() int {
	if s.EncodingLines <= 0 {
		return DefaultSampleEncodingLines
	}
	return s.EncodingLines
}

func (s *SampleValidator) maxBytes() int64 {
	if s.MaxBytes <= 0 {
		return DefaultSampleMaxBytes
	}
	return s.MaxBytes
}

type sampleCollector struct {
	name   string
	logger *slog.Logger
	seen   map[string]bool
	issues []Issue
}

func (c *sampleCollector) add(kind string, issue Issue) {
	if c.seen[kind] {
		return
	}
	c.seen[kind] = true
	issue.Type = SeverityError
	issue.Location = "Sample File " + c.name
	c.issues = append(c.issues, issue)
	c.logger.Error(issue.IssueValue,
		"category", CategorySampleFiles.Label(),
		"location", issue.Location,
		"expected", issue.ExpectedValue,
		"actual", issue.ActualValue,
	)
}

func (c *sampleCollector) readFailure(err error) {
	c.add("read", Issue{
		IssueValue:    "The sample file could not be read",
		ExpectedValue: "The sample file for dataset " + c.name + " should be readable delimited text.",
		ActualValue:   err.Error(),
		IssueDesc:     "The sample file is unreadable or malformed.",
	})
}

// ErrSampleUnreadable wraps I/O failures on sample files.
var ErrSampleUnreadable = errors.New("sample file unreadable")

func readHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSampleUnreadable, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSampleUnreadable, err)
	}
	return data, nil
}

// firstLines returns at most n lines of data, newlines included.
func firstLines(data []byte, n int) []byte {
	end := 0
	for i := 0; i < n && end < len(data); i++ {
		j := bytes.IndexByte(data[end:], '\n')
		if j < 0 {
			return data
		}
		end += j + 1
	}
	return data[:end]
}

func isUTF8Label(label string) bool {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return true
	}
	return false
}

// readHeader parses the first record of text using delimiter.
func readHeader(text []byte, delimiter string) ([]string, error) {
	r, size := utf8.DecodeRuneInString(delimiter)
	if r == utf8.RuneError || size != len(delimiter) {
		return nil, fmt.Errorf("%w: unsupported delimiter %q", ErrSampleUnreadable, delimiter)
	}

	cr := csv.NewReader(bytes.NewReader(table.TrimBOM(text)))
	cr.Comma = r
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rec, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrSampleUnreadable, err)
	}
	return rec, nil
}

func joinUpper(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(strings.TrimSpace(v))
	}
	return strings.Join(out, ",")
}
