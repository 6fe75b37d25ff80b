package model

import "fmt"

// Report is the ordered list of issues produced by one analysis run.
// The order is kept when issues are listed; counts do not depend on it.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// NewReport creates a Report over the given issues.
func NewReport(issues ...Issue) *Report {
	return &Report{Issues: issues}
}

// Len returns the number of issues in the report.
func (r *Report) Len() int {
	return len(r.Issues)
}

// Add appends issues to the report.
func (r *Report) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// CountBySeverity returns the number of issues whose severity equals sev.
func (r *Report) CountBySeverity(sev Severity) int {
	return CountBySeverity(r.Issues, sev)
}

// Partition splits the report into general and coverage issues using pred.
func (r *Report) Partition(pred CoveragePredicate) (general, coverage []Issue) {
	return Partition(r.Issues, pred)
}

// Validate returns an error wrapping ErrUnknownSeverity for the first
// issue whose severity is outside the known set.
func (r *Report) Validate() error {
	return ValidateIssues(r.Issues)
}

// CountBySeverity returns the number of issues whose severity equals sev.
func CountBySeverity(issues []Issue, sev Severity) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Partition splits issues into general and coverage issues using pred,
// keeping the relative order within each group. A nil pred falls back to
// IsCoverageIssue.
func Partition(issues []Issue, pred CoveragePredicate) (general, coverage []Issue) {
	if pred == nil {
		pred = IsCoverageIssue
	}
	for _, issue := range issues {
		if pred(issue) {
			coverage = append(coverage, issue)
		} else {
			general = append(general, issue)
		}
	}
	return general, coverage
}

// ValidateIssues checks that every issue carries a known severity.
func ValidateIssues(issues []Issue) error {
	for _, issue := range issues {
		if !issue.Severity.Valid() {
			return fmt.Errorf("issue %q: %w: %d", issue.Key, ErrUnknownSeverity, int(issue.Severity))
		}
	}
	return nil
}
