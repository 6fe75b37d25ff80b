package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/sonarstash/internal/model"
)

// JSONWriter outputs a machine-readable summary of the issues.
// This format is meant for CI steps that gate on issue counts.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, printer *MarkdownPrinter, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output, printer)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Summary is the JSON document written by JSONWriter.
type Summary struct {
	// PullRequest is the pull request the issues were found on.
	PullRequest model.PullRequestRef `json:"pull_request"`

	// Total is the number of issues.
	Total int `json:"total"`

	// Threshold is the issue display threshold.
	Threshold int `json:"threshold"`

	// ThresholdExceeded is true when the issue lists are not displayed.
	ThresholdExceeded bool `json:"threshold_exceeded"`

	// BySeverity maps severity names to issue counts. Every severity is
	// present, including those with zero issues.
	BySeverity map[string]int `json:"by_severity"`

	// GeneralCount is the number of static-analysis issues.
	GeneralCount int `json:"general_count"`

	// CoverageCount is the number of coverage issues.
	CoverageCount int `json:"coverage_count"`

	// Issues lists the issues when the threshold is not exceeded.
	Issues []model.Issue `json:"issues,omitempty"`
}

// NewSummary builds the Summary of issues as seen by printer.
func NewSummary(printer *MarkdownPrinter, issues []model.Issue) (*Summary, error) {
	if err := model.ValidateIssues(issues); err != nil {
		return nil, err
	}

	general, coverage := printer.Partition(issues)
	s := &Summary{
		PullRequest:       printer.PullRequest(),
		Total:             len(issues),
		Threshold:         printer.Threshold(),
		ThresholdExceeded: printer.ThresholdExceeded(len(issues)),
		BySeverity:        make(map[string]int, len(model.Severities())),
		GeneralCount:      len(general),
		CoverageCount:     len(coverage),
	}
	for _, sev := range model.Severities() {
		s.BySeverity[sev.String()] = model.CountBySeverity(issues, sev)
	}
	if !s.ThresholdExceeded {
		s.Issues = issues
	}
	return s, nil
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(issues []model.Issue) (int, error) {
	summary, err := NewSummary(w.printer, issues)
	if err != nil {
		return 0, err
	}

	var data []byte
	if w.indent {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
