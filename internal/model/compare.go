package model

import "strconv"

// Fingerprint identifies an issue across analysis runs. Server keys change
// between runs, so the rule, location and message are used instead.
func (i Issue) Fingerprint() string {
	line := ""
	if i.Line != nil {
		line = strconv.Itoa(*i.Line)
	}
	return i.Rule.String() + "|" + i.FilePath + "|" + line + "|" + i.Message
}

// Comparison is the difference between a baseline analysis and a newer one.
type Comparison struct {
	// New holds the issues of the newer run that the baseline does not
	// have, in the order of the newer run.
	New []Issue `json:"new_issues,omitempty"`

	// Resolved holds the baseline issues that are gone, in baseline order.
	Resolved []Issue `json:"resolved_issues,omitempty"`

	// UnchangedCount is the number of issues present in both runs.
	UnchangedCount int `json:"unchanged_count"`
}

// Compare matches the issues of two runs by Fingerprint. Duplicate
// fingerprints are matched one to one.
func Compare(baseline, current []Issue) *Comparison {
	remaining := make(map[string]int, len(baseline))
	for _, issue := range baseline {
		remaining[issue.Fingerprint()]++
	}

	result := &Comparison{}
	for _, issue := range current {
		fp := issue.Fingerprint()
		if remaining[fp] > 0 {
			remaining[fp]--
			result.UnchangedCount++
			continue
		}
		result.New = append(result.New, issue)
	}

	for _, issue := range baseline {
		fp := issue.Fingerprint()
		if remaining[fp] > 0 {
			remaining[fp]--
			result.Resolved = append(result.Resolved, issue)
		}
	}
	return result
}

// SeverityDelta returns how the count of sev changed from the baseline.
func (c *Comparison) SeverityDelta(sev Severity) int {
	return CountBySeverity(c.New, sev) - CountBySeverity(c.Resolved, sev)
}

// Worsened reports whether the newer run introduced any issue.
func (c *Comparison) Worsened() bool {
	return len(c.New) > 0
}
