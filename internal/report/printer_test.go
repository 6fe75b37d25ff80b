package report

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/sonarstash/internal/model"
)

const (
	testSonarURL = "sonarqube/URL"
	testStashURL = "stash/URL"
)

var testPullRequest = model.PullRequestRef{
	Project:       "stashProject",
	Repository:    "stashRepo",
	PullRequestID: 1,
}

var (
	issueBlocker = model.Issue{
		Key:      "key1",
		Severity: model.SeverityBlocker,
		Message:  "messageBlocker",
		Rule:     model.RuleKey{Repository: "RepoBlocker", Rule: "RuleBlocker"},
		FilePath: "foo1",
		Line:     model.LineOf(1),
	}
	issueCritical = model.Issue{
		Key:      "key2",
		Severity: model.SeverityCritical,
		Message:  "messageCritical",
		Rule:     model.RuleKey{Repository: "RepoCritical", Rule: "RuleCritical"},
		FilePath: "foo2",
		Line:     model.LineOf(1),
	}
	issueMajor = model.Issue{
		Key:      "key3",
		Severity: model.SeverityMajor,
		Message:  "messageMajor",
		Rule:     model.RuleKey{Repository: "RepoMajor", Rule: "RuleMajor"},
		FilePath: "foo3",
		Line:     model.LineOf(1),
	}
	coverageIssue = model.Issue{
		Key:      "key4",
		Severity: model.SeverityMajor,
		Message:  "some text",
		Rule:     model.RuleKey{Repository: model.CoverageEvolutionRepository("java"), Rule: "bla"},
		FilePath: "cov",
	}
)

const (
	blockerLine  = "| *BLOCKER* - messageBlocker [[RepoBlocker:RuleBlocker](sonarqube/URL/coding_rules#rule_key=RepoBlocker:RuleBlocker)] |\n"
	criticalLine = "| *CRITICAL* - messageCritical [[RepoCritical:RuleCritical](sonarqube/URL/coding_rules#rule_key=RepoCritical:RuleCritical)] |\n"
	majorLine    = "| *MAJOR* - messageMajor [[RepoMajor:RuleMajor](sonarqube/URL/coding_rules#rule_key=RepoMajor:RuleMajor)] |\n"
	coverageLine = "| *MAJOR* - some text [[coverageEvolution-java:bla](sonarqube/URL/coding_rules#rule_key=coverageEvolution-java:bla)] |\n"
)

// allIssues returns the three general issues followed by the coverage issue.
func allIssues() []model.Issue {
	return []model.Issue{issueBlocker, issueCritical, issueMajor, coverageIssue}
}

func newTestPrinter(t *testing.T, threshold int) *MarkdownPrinter {
	t.Helper()
	p, err := NewMarkdownPrinter(testStashURL, testPullRequest, threshold, testSonarURL)
	if err != nil {
		t.Fatalf("NewMarkdownPrinter: %v", err)
	}
	return p
}

func TestNewMarkdownPrinter(t *testing.T) {
	t.Parallel()

	t.Run("keeps configuration", func(t *testing.T) {
		t.Parallel()
		p := newTestPrinter(t, 100)
		if p.StashURL() != testStashURL || p.SonarURL() != testSonarURL {
			t.Errorf("unexpected URLs: %q %q", p.StashURL(), p.SonarURL())
		}
		if p.Threshold() != 100 {
			t.Errorf("expected threshold 100, got %d", p.Threshold())
		}
		if p.PullRequest() != testPullRequest {
			t.Errorf("unexpected pull request: %+v", p.PullRequest())
		}
	})

	testCases := []struct {
		name      string
		stashURL  string
		sonarURL  string
		threshold int
	}{
		{"zero threshold", testStashURL, testSonarURL, 0},
		{"negative threshold", testStashURL, testSonarURL, -5},
		{"missing stash URL", "", testSonarURL, 100},
		{"missing sonar URL", testStashURL, "", 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewMarkdownPrinter(tc.stashURL, testPullRequest, tc.threshold, tc.sonarURL)
			if !errors.Is(err, ErrInvalidPrinterConfig) {
				t.Errorf("expected ErrInvalidPrinterConfig, got %v", err)
			}
		})
	}
}

func TestIssueMarkdown(t *testing.T) {
	t.Parallel()

	p := newTestPrinter(t, 100)
	want := "*BLOCKER* - messageBlocker [[RepoBlocker:RuleBlocker](sonarqube/URL/coding_rules#rule_key=RepoBlocker:RuleBlocker)]"
	if got := p.IssueMarkdown(issueBlocker); got != want {
		t.Errorf("IssueMarkdown() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestIssueNumberBySeverityMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("counts every issue", func(t *testing.T) {
		t.Parallel()
		report := allIssues()
		testCases := map[model.Severity]string{
			model.SeverityBlocker: "| BLOCKER | 1 |\n",
			model.SeverityMajor:   "| MAJOR | 2 |\n",
			model.SeverityInfo:    "| INFO | 0 |\n",
		}
		for sev, want := range testCases {
			if got := IssueNumberBySeverityMarkdown(report, sev); got != want {
				t.Errorf("severity %v: got %q, want %q", sev, got, want)
			}
		}
	})

	t.Run("no issues", func(t *testing.T) {
		t.Parallel()
		for _, sev := range model.Severities() {
			want := "| " + sev.String() + " | 0 |\n"
			if got := IssueNumberBySeverityMarkdown(nil, sev); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		}
	})

	t.Run("only coverage issues", func(t *testing.T) {
		t.Parallel()
		report := []model.Issue{coverageIssue}
		if got := IssueNumberBySeverityMarkdown(report, model.SeverityBlocker); got != "| BLOCKER | 0 |\n" {
			t.Errorf("got %q", got)
		}
		if got := IssueNumberBySeverityMarkdown(report, model.SeverityMajor); got != "| MAJOR | 1 |\n" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("no coverage issues", func(t *testing.T) {
		t.Parallel()
		report := []model.Issue{issueBlocker, issueCritical, issueMajor}
		if got := IssueNumberBySeverityMarkdown(report, model.SeverityMajor); got != "| MAJOR | 1 |\n" {
			t.Errorf("got %q", got)
		}
	})
}

func TestReportMarkdown(t *testing.T) {
	t.Parallel()

	countsTable := func(total, blocker, critical, major int) string {
		var sb strings.Builder
		sb.WriteString("| Total New Issues | " + strconv.Itoa(total) + " |\n")
		sb.WriteString("|-----------------|------|\n")
		sb.WriteString("| BLOCKER | " + strconv.Itoa(blocker) + " |\n")
		sb.WriteString("| CRITICAL | " + strconv.Itoa(critical) + " |\n")
		sb.WriteString("| MAJOR | " + strconv.Itoa(major) + " |\n")
		sb.WriteString("| MINOR | 0 |\n")
		sb.WriteString("| INFO | 0 |\n\n\n")
		return sb.String()
	}

	testCases := []struct {
		name      string
		threshold int
		issues    []model.Issue
		want      string
	}{
		{
			name:      "empty report",
			threshold: 100,
			issues:    nil,
			want:      "## SonarQube analysis Overview\n### No new issues detected!\n\n",
		},
		{
			name:      "general and coverage issues",
			threshold: 100,
			issues:    allIssues(),
			want: "## SonarQube analysis Overview\n" +
				countsTable(4, 1, 1, 2) +
				"| Issues list |\n" +
				"|-------------|\n" +
				blockerLine + criticalLine + majorLine +
				"\n\n" +
				"| Coverage |\n" +
				"|----------|\n" +
				coverageLine,
		},
		{
			name:      "threshold exceeded hides the lists",
			threshold: 3,
			issues:    allIssues(),
			want: "## SonarQube analysis Overview\n" +
				"### Too many issues detected (4/3): Issues cannot be displayed in Diff view.\n\n" +
				countsTable(4, 1, 1, 2),
		},
		{
			name:      "threshold equal to total still lists issues",
			threshold: 4,
			issues:    allIssues(),
			want: "## SonarQube analysis Overview\n" +
				countsTable(4, 1, 1, 2) +
				"| Issues list |\n" +
				"|-------------|\n" +
				blockerLine + criticalLine + majorLine +
				"\n\n" +
				"| Coverage |\n" +
				"|----------|\n" +
				coverageLine,
		},
		{
			name:      "only coverage issues",
			threshold: 100,
			issues:    []model.Issue{coverageIssue},
			want: "## SonarQube analysis Overview\n" +
				countsTable(1, 0, 0, 1) +
				"| Coverage |\n" +
				"|----------|\n" +
				coverageLine,
		},
		{
			name:      "no coverage issues",
			threshold: 100,
			issues:    []model.Issue{issueBlocker, issueCritical, issueMajor},
			want: "## SonarQube analysis Overview\n" +
				countsTable(3, 1, 1, 1) +
				"| Issues list |\n" +
				"|-------------|\n" +
				blockerLine + criticalLine + majorLine,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := newTestPrinter(t, tc.threshold)
			got, err := p.ReportMarkdown(tc.issues)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ReportMarkdown() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReportMarkdownProperties(t *testing.T) {
	t.Parallel()

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		p := newTestPrinter(t, 100)
		first, err := p.ReportMarkdown(allIssues())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := p.ReportMarkdown(allIssues())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Errorf("second call differs:\n%s", cmp.Diff(first, second))
		}
	})

	t.Run("threshold plus one shows banner", func(t *testing.T) {
		t.Parallel()
		issues := allIssues()
		p := newTestPrinter(t, len(issues)-1)
		got, err := p.ReportMarkdown(issues)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(got, "Too many issues detected (4/3)") {
			t.Error("expected threshold banner")
		}
		if !strings.Contains(got, "| Total New Issues | 4 |") {
			t.Error("expected counts table")
		}
		if strings.Contains(got, "| Issues list |") || strings.Contains(got, "| Coverage |") {
			t.Error("expected issue lists to be hidden")
		}
	})

	t.Run("does not modify the input", func(t *testing.T) {
		t.Parallel()
		p := newTestPrinter(t, 100)
		issues := allIssues()
		if _, err := p.ReportMarkdown(issues); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(allIssues(), issues); diff != "" {
			t.Errorf("input modified (-want +got):\n%s", diff)
		}
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()
		p := newTestPrinter(t, 100)
		want, err := p.ReportMarkdown(allIssues())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var wg sync.WaitGroup
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = p.ReportMarkdown(allIssues())
			}()
		}
		wg.Wait()

		for i, got := range results {
			if got != want {
				t.Errorf("result %d differs", i)
			}
		}
	})

	t.Run("unknown severity fails fast", func(t *testing.T) {
		t.Parallel()
		p := newTestPrinter(t, 100)
		issues := append(allIssues(), model.Issue{Key: "bad", Severity: model.Severity(12)})
		got, err := p.ReportMarkdown(issues)
		if !errors.Is(err, model.ErrUnknownSeverity) {
			t.Errorf("expected ErrUnknownSeverity, got %v", err)
		}
		if got != "" {
			t.Errorf("expected no output, got %q", got)
		}
	})

	t.Run("custom coverage predicate", func(t *testing.T) {
		t.Parallel()
		none := func(model.Issue) bool { return false }
		p, err := NewMarkdownPrinter(testStashURL, testPullRequest, 100, testSonarURL, WithCoveragePredicate(none))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := p.ReportMarkdown(allIssues())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(got, "| Coverage |") {
			t.Error("expected no coverage section")
		}
		if !strings.HasSuffix(got, coverageLine) {
			t.Error("expected the coverage issue in the general list")
		}
	})
}
