package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sonarstash/internal/model"
)

// SimpleWriter outputs a plain-text report for terminal display.
// It is meant for a developer running the tool locally before pushing.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether severities with no issues are listed.
	showEmpty bool

	// verbose adds the rule URL under every issue.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list severities without issues.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with rule URLs.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, printer *MarkdownPrinter, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output, printer)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the issues in human-readable format.
func (w *SimpleWriter) Write(issues []model.Issue) (int, error) {
	if err := model.ValidateIssues(issues); err != nil {
		return 0, err
	}

	var sb strings.Builder
	w.writeHeader(&sb)
	w.writeSummary(&sb, issues)

	if len(issues) > 0 {
		if w.printer.ThresholdExceeded(len(issues)) {
			fmt.Fprintf(&sb, "Too many issues detected (%d/%d): issues are not listed.\n\n",
				len(issues), w.printer.Threshold())
		} else {
			general, coverage := w.printer.Partition(issues)
			w.writeSection(&sb, "ISSUES", general)
			w.writeSection(&sb, "COVERAGE", coverage)
		}
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with the pull request reference.
func (w *SimpleWriter) writeHeader(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    SONARQUBE ANALYSIS OVERVIEW\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Pull Request: %s\n", w.printer.PullRequest())
	fmt.Fprintf(sb, "SonarQube:    %s\n", w.printer.SonarURL())
	fmt.Fprintf(sb, "Threshold:    %d\n\n", w.printer.Threshold())
}

// writeSummary writes the per-severity counts.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, issues []model.Issue) {
	writeSectionTitle(sb, "SEVERITY SUMMARY")

	if len(issues) == 0 {
		sb.WriteString("  No new issues detected!\n\n")
		return
	}

	for _, sev := range model.Severities() {
		n := model.CountBySeverity(issues, sev)
		if n == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %-9s %d\n", sev.String()+":", n)
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  %-9s %d issues\n\n", "TOTAL:", len(issues))
}

// writeSection writes one issue list. Empty sections are skipped unless
// showEmpty is set.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string, issues []model.Issue) {
	if len(issues) == 0 && !w.showEmpty {
		return
	}

	writeSectionTitle(sb, title)
	if len(issues) == 0 {
		sb.WriteString("  No issues\n\n")
		return
	}

	for _, issue := range issues {
		fmt.Fprintf(sb, "  [%s] %s (%s)\n", issue.Severity, issue.Message, issue.Rule)
		if loc := issue.Location(); loc != "" {
			fmt.Fprintf(sb, "    Location: %s\n", loc)
		}
		if w.verbose {
			fmt.Fprintf(sb, "    Rule:     %s\n", w.printer.RuleURL(issue.Rule))
		}
	}
	sb.WriteString("\n")
}

func writeSectionTitle(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
