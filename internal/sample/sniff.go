package sample

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
)

// ErrNoDelimiter is returned when no candidate delimiter occurs in the text.
var ErrNoDelimiter = errors.New("could not determine delimiter")

// DefaultCandidates are tried in preference order.
var DefaultCandidates = []string{",", "\t", ";", "|", ":"}

// DefaultSniffLines is the number of leading lines inspected.
const DefaultSniffLines = 20

// Sniffer picks the delimiter that splits every inspected line into the
// same number of fields. When no candidate is consistent, the candidate
// occurring most often in the first line wins.
type Sniffer struct {
	Candidates []string
	Lines      int
}

// Sniff returns the delimiter of text.
func (s Sniffer) Sniff(text []byte) (string, error) {
	candidates := s.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	lines := leadingLines(text, s.lines())
	if len(lines) == 0 {
		return "", ErrNoDelimiter
	}

	best, bestCount := "", 0
	for _, c := range candidates {
		n := countOutsideQuotes(lines[0], c)
		if n == 0 || n <= bestCount {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if countOutsideQuotes(line, c) != n {
				consistent = false
				break
			}
		}
		if consistent {
			best, bestCount = c, n
		}
	}
	if best != "" {
		return best, nil
	}

	for _, c := range candidates {
		if n := countOutsideQuotes(lines[0], c); n > bestCount {
			best, bestCount = c, n
		}
	}
	if best == "" {
		return "", ErrNoDelimiter
	}
	return best, nil
}

func (s Sniffer) lines() int {
	if s.Lines <= 0 {
		return DefaultSniffLines
	}
	return s.Lines
}

// leadingLines returns up to n non-blank lines without line terminators.
func leadingLines(text []byte, n int) []string {
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	var out []string
	for sc.Scan() && len(out) < n {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// countOutsideQuotes counts occurrences of sep outside double-quoted fields.
func countOutsideQuotes(line, sep string) int {
	n, quoted := 0, false
	for i := 0; i < len(line); {
		if line[i] == '"' {
			quoted = !quoted
			i++
			continue
		}
		if !quoted && strings.HasPrefix(line[i:], sep) {
			n++
			i += len(sep)
			continue
		}
		i++
	}
	return n
}
