// Package report renders analysis issues for pull request review.
//
// The central type is MarkdownPrinter, which produces the Markdown overview
// posted on Stash pull requests: a count of new issues per severity followed
// by the list of static-analysis issues and the list of coverage issues.
// When there are more issues than the configured threshold, only the counts
// are rendered.
//
// Writers wrap the printer for the render command:
//   - StashWriter: The Stash overview, byte for byte
//   - GFMWriter: GitHub-flavored Markdown with alerts and a pie chart
//   - JSONWriter: A structured summary for CI tooling
//   - SimpleWriter: Plain text for terminals
package report
