package core

import "reflect"

// Assemble removes duplicate entries from dataset reports: identical
// dataset reports are kept once, and within each category identical issues
// are kept once. First occurrences win and order is preserved.
func Assemble(reports []DatasetIssueReport) []DatasetIssueReport {
	out := make([]DatasetIssueReport, 0, len(reports))
	for _, r := range reports {
		r = dedupCategories(r)
		if r.Empty() || containsReport(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DedupIssues removes repeated issues keeping the first occurrence.
func DedupIssues(issues []Issue) []Issue {
	seen := make(map[Issue]bool, len(issues))
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		if seen[is] {
			continue
		}
		seen[is] = true
		out = append(out, is)
	}
	return out
}

func dedupCategories(r DatasetIssueReport) DatasetIssueReport {
	cats := make([]CategoryIssues, 0, len(r.AllIssue))
	for _, c := range r.AllIssue {
		issues := DedupIssues(c.Issues)
		if len(issues) == 0 {
			continue
		}
		cats = append(cats, CategoryIssues{Location: c.Location, Issues: issues})
	}
	return DatasetIssueReport{DatasetName: r.DatasetName, AllIssue: cats}
}

func containsReport(list []DatasetIssueReport, r DatasetIssueReport) bool {
	for _, x := range list {
		if reflect.DeepEqual(x, r) {
			return true
		}
	}
	return false
}
