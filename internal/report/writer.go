package report

import (
	"fmt"
	"io"

	"github.com/nao1215/sonarstash/internal/model"
)

// Format names an output format of the render command.
type Format string

const (
	// FormatStash is the Markdown overview posted on Stash pull requests.
	FormatStash Format = "stash"

	// FormatGFM is a GitHub-flavored Markdown rendering with alerts and charts.
	FormatGFM Format = "gfm"

	// FormatJSON is a machine-readable summary.
	FormatJSON Format = "json"

	// FormatText is a plain-text report for terminals.
	FormatText Format = "text"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatStash, FormatGFM, FormatJSON, FormatText}
}

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Writer defines the interface for report output.
// Implementations render the issues of one analysis run.
type Writer interface {
	// Write renders issues to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(issues []model.Issue) (int, error)
}

// NewWriter returns the Writer for format, rendering with printer.
// verbose makes the text format list empty severities and rule URLs.
func NewWriter(format Format, output io.Writer, printer *MarkdownPrinter, verbose bool) (Writer, error) {
	switch format {
	case FormatStash:
		return NewStashWriter(output, printer), nil
	case FormatGFM:
		return NewGFMWriter(output, printer), nil
	case FormatJSON:
		return NewJSONWriter(output, printer, WithPrettyPrint()), nil
	case FormatText:
		return NewSimpleWriter(output, printer, WithShowEmpty(verbose), WithVerbose(verbose)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output  io.Writer
	printer *MarkdownPrinter
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, printer *MarkdownPrinter) baseWriter {
	return baseWriter{output: output, printer: printer}
}

// StashWriter writes the Stash pull request overview.
type StashWriter struct {
	baseWriter
}

// NewStashWriter creates a StashWriter that outputs to the given writer.
func NewStashWriter(output io.Writer, printer *MarkdownPrinter) *StashWriter {
	return &StashWriter{baseWriter: newBaseWriter(output, printer)}
}

// Write renders the overview and writes it in one call.
func (w *StashWriter) Write(issues []model.Issue) (int, error) {
	md, err := w.printer.ReportMarkdown(issues)
	if err != nil {
		return 0, err
	}
	return io.WriteString(w.output, md)
}
