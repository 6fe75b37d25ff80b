package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/sonarstash/internal/model"
)

// Fixed fragments of the Stash overview. They are compared byte for byte
// by the consumers of the report, so keep them untouched.
const (
	overviewHeader     = "## SonarQube analysis Overview\n"
	noIssuesBanner     = "### No new issues detected!\n\n"
	tooManyIssuesFmt   = "### Too many issues detected (%d/%d): Issues cannot be displayed in Diff view.\n\n"
	totalIssuesFmt     = "| Total New Issues | %d |\n"
	totalIssuesRule    = "|-----------------|------|\n"
	issuesListHeader   = "| Issues list |\n|-------------|\n"
	coverageListHeader = "| Coverage |\n|----------|\n"
	sectionSeparator   = "\n\n"
)

// MarkdownPrinter renders issues as the Markdown overview posted on a
// Stash pull request.
//
// A MarkdownPrinter holds only configuration fixed at construction, so a
// single instance can be shared between goroutines.
type MarkdownPrinter struct {
	stashURL    string
	sonarURL    string
	pullRequest model.PullRequestRef
	threshold   int
	isCoverage  model.CoveragePredicate
}

// PrinterOption configures a MarkdownPrinter.
type PrinterOption func(*MarkdownPrinter)

// WithCoveragePredicate replaces the rule used to tell coverage issues
// apart from general issues. A nil predicate is ignored.
func WithCoveragePredicate(pred model.CoveragePredicate) PrinterOption {
	return func(p *MarkdownPrinter) {
		if pred != nil {
			p.isCoverage = pred
		}
	}
}

// NewMarkdownPrinter creates a MarkdownPrinter.
//
// threshold is the largest number of issues for which the issue lists
// are still rendered. It must be positive, and both URLs must be set.
func NewMarkdownPrinter(stashURL string, pr model.PullRequestRef, threshold int, sonarURL string, opts ...PrinterOption) (*MarkdownPrinter, error) {
	if stashURL == "" {
		return nil, fmt.Errorf("%w: stash URL is empty", ErrInvalidPrinterConfig)
	}
	if sonarURL == "" {
		return nil, fmt.Errorf("%w: sonarqube URL is empty", ErrInvalidPrinterConfig)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: issue threshold must be positive, got %d", ErrInvalidPrinterConfig, threshold)
	}

	p := &MarkdownPrinter{
		stashURL:    stashURL,
		sonarURL:    sonarURL,
		pullRequest: pr,
		threshold:   threshold,
		isCoverage:  model.IsCoverageIssue,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// StashURL returns the Stash base URL the printer was built with.
func (p *MarkdownPrinter) StashURL() string { return p.stashURL }

// SonarURL returns the SonarQube base URL used for rule links.
func (p *MarkdownPrinter) SonarURL() string { return p.sonarURL }

// PullRequest returns the pull request the report is meant for.
func (p *MarkdownPrinter) PullRequest() model.PullRequestRef { return p.pullRequest }

// Threshold returns the issue display threshold.
func (p *MarkdownPrinter) Threshold() int { return p.threshold }

// ThresholdExceeded reports whether total issues are too many to list.
func (p *MarkdownPrinter) ThresholdExceeded(total int) bool {
	return total > p.threshold
}

// Partition splits issues into general and coverage issues.
func (p *MarkdownPrinter) Partition(issues []model.Issue) (general, coverage []model.Issue) {
	return model.Partition(issues, p.isCoverage)
}

// RuleURL returns the SonarQube page of the rule that raised the issue.
func (p *MarkdownPrinter) RuleURL(rule model.RuleKey) string {
	return p.sonarURL + "/coding_rules#rule_key=" + rule.String()
}

// IssueMarkdown renders a single issue as
//
//	*SEVERITY* - message [[repo:rule](sonarURL/coding_rules#rule_key=repo:rule)]
func (p *MarkdownPrinter) IssueMarkdown(issue model.Issue) string {
	rule := issue.Rule.String()
	return "*" + issue.Severity.String() + "* - " + issue.Message +
		" [[" + rule + "](" + p.RuleURL(issue.Rule) + ")]"
}

// IssueNumberBySeverityMarkdown renders the count row of one severity.
// All issues count, whether they are coverage issues or not.
func IssueNumberBySeverityMarkdown(issues []model.Issue, sev model.Severity) string {
	return "| " + sev.String() + " | " + strconv.Itoa(model.CountBySeverity(issues, sev)) + " |\n"
}

// ReportMarkdown renders the full overview for issues.
//
// The result is a pure function of issues and the printer configuration.
// An issue with a severity outside the known set makes the whole call fail
// with ErrUnknownSeverity; no partial report is returned.
func (p *MarkdownPrinter) ReportMarkdown(issues []model.Issue) (string, error) {
	if err := model.ValidateIssues(issues); err != nil {
		return "", err
	}

	fragments := []string{overviewHeader}

	total := len(issues)
	if total == 0 {
		fragments = append(fragments, noIssuesBanner)
		return strings.Join(fragments, ""), nil
	}

	exceeded := p.ThresholdExceeded(total)
	if exceeded {
		fragments = append(fragments, fmt.Sprintf(tooManyIssuesFmt, total, p.threshold))
	}

	fragments = append(fragments, fmt.Sprintf(totalIssuesFmt, total), totalIssuesRule)
	for _, sev := range model.Severities() {
		fragments = append(fragments, IssueNumberBySeverityMarkdown(issues, sev))
	}
	fragments = append(fragments, sectionSeparator)

	if exceeded {
		return strings.Join(fragments, ""), nil
	}

	general, coverage := p.Partition(issues)
	if len(general) > 0 {
		fragments = append(fragments, issuesListHeader)
		fragments = append(fragments, p.issueRows(general)...)
		if len(coverage) > 0 {
			fragments = append(fragments, sectionSeparator)
		}
	}
	if len(coverage) > 0 {
		fragments = append(fragments, coverageListHeader)
		fragments = append(fragments, p.issueRows(coverage)...)
	}

	return strings.Join(fragments, ""), nil
}

// issueRows renders one table row per issue.
func (p *MarkdownPrinter) issueRows(issues []model.Issue) []string {
	rows := make([]string, len(issues))
	for i, issue := range issues {
		rows[i] = "| " + p.IssueMarkdown(issue) + " |\n"
	}
	return rows
}
