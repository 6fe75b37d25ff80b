package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sonarstash/internal/ingest"
	"github.com/nao1215/sonarstash/internal/model"
	"github.com/spf13/cobra"
)

// Constants for the direction of change between two analyses.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
)

// errNewIssues is returned by compare --fail-on-new when issues appeared.
var errNewIssues = errors.New("new issues found")

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <baseline-file> <current-file>",
		Short: "Compare the issues of two analyses",
		Long: `Compare displays the differences between two issue files.

Issues are matched by rule, file, line and message, since issue keys
change between analyses. The output shows:
- New issues that appeared in the current analysis
- Resolved issues that are no longer present
- The change of the issue count per severity

Examples:
  # Compare the target branch analysis with the pull request analysis
  sonarstash compare main.json pr.json

  # Output comparison in JSON format
  sonarstash compare --json main.json pr.json

  # Fail the CI job when the pull request adds issues
  sonarstash compare --fail-on-new main.json pr.json`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	// Output format flags
	cmd.Flags().Bool("json", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	cmd.Flags().Bool("fail-on-new", false,
		"Exit with an error when the current analysis has new issues")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	failOnNew, err := cmd.Flags().GetBool("fail-on-new")
	if err != nil {
		return err
	}

	loader := ingest.NewLoader(
		ingest.WithLogger(newLogger(cmd, getVerboseFlag(cmd))),
		ingest.WithStdin(cmd.InOrStdin()),
	)
	baseline, err := loader.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}
	current, err := loader.Load(args[1])
	if err != nil {
		return fmt.Errorf("failed to load current issues: %w", err)
	}

	result, err := compareIssues(baseline, current)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		err = outputComparisonJSON(out, result)
	case markdownOutput:
		err = outputComparisonMarkdown(out, result)
	default:
		err = outputComparisonText(out, result)
	}
	if err != nil {
		return err
	}

	if failOnNew && result.Worsened() {
		return fmt.Errorf("%w: %d", errNewIssues, len(result.New))
	}
	return nil
}

// ComparisonResult holds the result of comparing two issue files.
type ComparisonResult struct {
	*model.Comparison

	// BaselineTotal is the number of issues in the baseline.
	BaselineTotal int `json:"baseline_total"`

	// CurrentTotal is the number of issues in the current analysis.
	CurrentTotal int `json:"current_total"`

	// Deltas maps each severity to the change of its issue count.
	Deltas map[string]int `json:"deltas"`

	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`
}

// compareIssues validates both runs and compares them.
func compareIssues(baseline, current []model.Issue) (*ComparisonResult, error) {
	if err := model.ValidateIssues(baseline); err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	if err := model.ValidateIssues(current); err != nil {
		return nil, fmt.Errorf("current: %w", err)
	}

	comparison := model.Compare(baseline, current)
	result := &ComparisonResult{
		Comparison:    comparison,
		BaselineTotal: len(baseline),
		CurrentTotal:  len(current),
		Deltas:        make(map[string]int, len(model.Severities())),
	}
	for _, sev := range model.Severities() {
		result.Deltas[sev.String()] = comparison.SeverityDelta(sev)
	}
	result.Direction = direction(baseline, current)
	return result, nil
}

// direction weighs each issue by severity, blockers counting the most.
func direction(baseline, current []model.Issue) string {
	weights := map[model.Severity]int{
		model.SeverityBlocker:  100,
		model.SeverityCritical: 50,
		model.SeverityMajor:    10,
		model.SeverityMinor:    5,
		model.SeverityInfo:     1,
	}
	score := func(issues []model.Issue) int {
		total := 0
		for _, issue := range issues {
			total += weights[issue.Severity]
		}
		return total
	}

	previous, now := score(baseline), score(current)
	switch {
	case now < previous:
		return directionImproved
	case now > previous:
		return directionWorsened
	default:
		return directionUnchanged
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	var sb strings.Builder

	sb.WriteString("# Issue Comparison\n\n")
	fmt.Fprintf(&sb, "**Status:** %s\n\n", result.Direction)

	sb.WriteString("| Severity | Change |\n")
	sb.WriteString("|----------|--------|\n")
	for _, sev := range model.Severities() {
		fmt.Fprintf(&sb, "| %s | %s |\n", sev, formatDelta(result.Deltas[sev.String()]))
	}
	fmt.Fprintf(&sb, "| **Total** | **%s** |\n", formatDelta(result.CurrentTotal-result.BaselineTotal))

	writeMarkdownIssues(&sb, "New Issues", result.New)
	writeMarkdownIssues(&sb, "Resolved Issues", result.Resolved)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMarkdownIssues(sb *strings.Builder, title string, issues []model.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s (%d)\n\n", title, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(sb, "- **[%s]** %s (`%s`)\n", issue.Severity, issue.Message, issue.Rule)
		if loc := issue.Location(); loc != "" {
			fmt.Fprintf(sb, "  - Location: `%s`\n", loc)
		}
	}
}

// outputComparisonText outputs the comparison result in plain text.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Issues: %d -> %d (%s)\n", result.BaselineTotal, result.CurrentTotal, result.Direction)
	fmt.Fprintf(&sb, "New: %d, Resolved: %d, Unchanged: %d\n\n",
		len(result.New), len(result.Resolved), result.UnchangedCount)

	for _, sev := range model.Severities() {
		fmt.Fprintf(&sb, "  %-9s %s\n", sev, formatDelta(result.Deltas[sev.String()]))
	}

	writeTextIssues(&sb, "NEW ISSUES", "+", result.New)
	writeTextIssues(&sb, "RESOLVED ISSUES", "-", result.Resolved)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTextIssues(sb *strings.Builder, title, marker string, issues []model.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s\n", title)
	for _, issue := range issues {
		fmt.Fprintf(sb, "  %s [%s] %s (%s)", marker, issue.Severity, issue.Message, issue.Rule)
		if loc := issue.Location(); loc != "" {
			fmt.Fprintf(sb, " at %s", loc)
		}
		sb.WriteString("\n")
	}
}

// formatDelta formats a count change with an explicit sign.
func formatDelta(delta int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("+%d", delta)
	case delta < 0:
		return fmt.Sprintf("%d", delta)
	default:
		return "0"
	}
}
