package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sonarstash/internal/model"
)

// GFMWriter outputs the issues as GitHub-flavored Markdown.
// It carries the same information as the Stash overview, laid out with
// alerts, a severity pie chart and per-section tables that include the
// issue location.
type GFMWriter struct {
	baseWriter
}

// NewGFMWriter creates a GFMWriter that outputs to the given writer.
func NewGFMWriter(output io.Writer, printer *MarkdownPrinter) *GFMWriter {
	return &GFMWriter{baseWriter: newBaseWriter(output, printer)}
}

// Write outputs the report in GitHub-flavored Markdown.
func (w *GFMWriter) Write(issues []model.Issue) (int, error) {
	if err := model.ValidateIssues(issues); err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)
	md.H2("SonarQube analysis Overview")
	md.PlainText("")

	if len(issues) == 0 {
		md.Tip("No new issues detected!")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	w.writeSummary(md, issues)

	if w.printer.ThresholdExceeded(len(issues)) {
		md.Warningf("Too many issues detected (%d/%d): issues cannot be displayed in Diff view.",
			len(issues), w.printer.Threshold())
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	general, coverage := w.printer.Partition(issues)
	if len(general) > 0 {
		md.H3("Issues list")
		md.PlainText("")
		w.writeIssueTable(md, general)
	}
	if len(coverage) > 0 {
		md.H3("Coverage")
		md.PlainText("")
		w.writeIssueTable(md, coverage)
	}

	return len(md.String()), md.Build()
}

// writeSummary writes the count table and the severity chart.
func (w *GFMWriter) writeSummary(md *markdown.Markdown, issues []model.Issue) {
	rows := make([][]string, 0, len(model.Severities())+1)
	for _, sev := range model.Severities() {
		rows = append(rows, []string{sev.String(), strconv.Itoa(model.CountBySeverity(issues, sev))})
	}
	rows = append(rows, []string{markdown.Bold("Total"), markdown.Bold(strconv.Itoa(len(issues)))})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "New Issues"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, issues)
	w.writeAlert(md, issues)
}

// writePieChart writes a mermaid pie chart of the severity distribution.
// Severities without issues are left out of the chart.
func (w *GFMWriter) writePieChart(md *markdown.Markdown, issues []model.Issue) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("New Issues by Severity"),
		piechart.WithShowData(true),
	)
	for _, sev := range model.Severities() {
		if n := model.CountBySeverity(issues, sev); n > 0 {
			chart.LabelAndIntValue(sev.String(), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the most important severity found.
func (w *GFMWriter) writeAlert(md *markdown.Markdown, issues []model.Issue) {
	blockers := model.CountBySeverity(issues, model.SeverityBlocker)
	critical := model.CountBySeverity(issues, model.SeverityCritical)

	switch {
	case blockers > 0:
		md.Cautionf("%d blocker issue(s) must be fixed before merging.", blockers)
	case critical > 0:
		md.Importantf("%d critical issue(s) should be reviewed.", critical)
	default:
		md.Note("Only major, minor and informational issues detected.")
	}
	md.PlainText("")
}

// writeIssueTable writes one row per issue, keeping the input order.
func (w *GFMWriter) writeIssueTable(md *markdown.Markdown, issues []model.Issue) {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		location := issue.Location()
		if location == "" {
			location = "-"
		}
		rows[i] = []string{
			issue.Severity.String(),
			issue.Message,
			markdown.Link(issue.Rule.String(), w.printer.RuleURL(issue.Rule)),
			location,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Message", "Rule", "Location"},
		Rows:   rows,
	})
	md.PlainText("")
}
