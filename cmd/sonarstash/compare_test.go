package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/sonarstash/internal/model"
)

const baselineIssues = `issues:
  - key: old1
    severity: BLOCKER
    message: messageBlocker
    rule: {repository: RepoBlocker, rule: RuleBlocker}
    file: foo1
    line: 1
  - key: old2
    severity: MINOR
    message: fixed meanwhile
    rule: {repository: RepoMinor, rule: RuleMinor}
    file: foo9
    line: 7
`

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cmd.Use, "compare") {
			t.Errorf("expected use to start with 'compare', got %q", cmd.Use)
		}
	})

	t.Run("markdown flag has shorthand m", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("markdown")
		if flag == nil {
			t.Fatal("expected markdown flag")
		}
		if flag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", flag.Shorthand)
		}
	})

	t.Run("has json and fail-on-new flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
		if cmd.Flags().Lookup("fail-on-new") == nil {
			t.Error("expected fail-on-new flag")
		}
	})
}

// setupCompareFiles writes the baseline and current issue files.
func setupCompareFiles(t *testing.T) (baselinePath, currentPath string) {
	t.Helper()
	dir := t.TempDir()
	baselinePath = filepath.Join(dir, "baseline.yaml")
	currentPath = filepath.Join(dir, "current.yaml")
	if err := os.WriteFile(baselinePath, []byte(baselineIssues), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(currentPath, []byte(testIssues), 0600); err != nil {
		t.Fatal(err)
	}
	return baselinePath, currentPath
}

func executeCompare(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"compare"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRunCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("text output", func(t *testing.T) {
		t.Parallel()
		baselinePath, currentPath := setupCompareFiles(t)

		got, err := executeCompare(t, baselinePath, currentPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Issues: 2 -> 4 (worsened)",
			"New: 3, Resolved: 1, Unchanged: 1",
			"+ [CRITICAL] messageCritical (RepoCritical:RuleCritical) at foo2:1",
			"- [MINOR] fixed meanwhile (RepoMinor:RuleMinor) at foo9:7",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		baselinePath, currentPath := setupCompareFiles(t)

		got, err := executeCompare(t, "--json", baselinePath, currentPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result struct {
			New            []model.Issue  `json:"new_issues"`
			Resolved       []model.Issue  `json:"resolved_issues"`
			UnchangedCount int            `json:"unchanged_count"`
			Deltas         map[string]int `json:"deltas"`
			Direction      string         `json:"direction"`
		}
		if err := json.Unmarshal([]byte(got), &result); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(result.New) != 3 || len(result.Resolved) != 1 || result.UnchangedCount != 1 {
			t.Errorf("unexpected comparison: %+v", result)
		}
		if result.Deltas["MAJOR"] != 2 || result.Deltas["MINOR"] != -1 || result.Deltas["BLOCKER"] != 0 {
			t.Errorf("unexpected deltas: %v", result.Deltas)
		}
		if result.Direction != directionWorsened {
			t.Errorf("expected worsened, got %q", result.Direction)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()
		baselinePath, currentPath := setupCompareFiles(t)

		got, err := executeCompare(t, "-m", baselinePath, currentPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"# Issue Comparison", "| MAJOR | +2 |", "## New Issues (3)", "## Resolved Issues (1)"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})

	t.Run("fail on new issues", func(t *testing.T) {
		t.Parallel()
		baselinePath, currentPath := setupCompareFiles(t)

		_, err := executeCompare(t, "--fail-on-new", baselinePath, currentPath)
		if !errors.Is(err, errNewIssues) {
			t.Errorf("expected errNewIssues, got %v", err)
		}

		if _, err := executeCompare(t, "--fail-on-new", currentPath, currentPath); err != nil {
			t.Errorf("expected no error for identical files, got %v", err)
		}
	})

	t.Run("requires two files", func(t *testing.T) {
		t.Parallel()
		baselinePath, _ := setupCompareFiles(t)

		if _, err := executeCompare(t, baselinePath); err == nil {
			t.Error("expected error with one argument")
		}
	})
}

func TestDirection(t *testing.T) {
	t.Parallel()

	blocker := model.Issue{Severity: model.SeverityBlocker}
	info := model.Issue{Severity: model.SeverityInfo}

	tests := []struct {
		name     string
		baseline []model.Issue
		current  []model.Issue
		want     string
	}{
		{name: "fewer severe issues", baseline: []model.Issue{blocker}, current: []model.Issue{info, info}, want: directionImproved},
		{name: "more severe issues", baseline: []model.Issue{info}, current: []model.Issue{blocker}, want: directionWorsened},
		{name: "same score", baseline: []model.Issue{info}, current: []model.Issue{info}, want: directionUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := direction(tt.baseline, tt.current); got != tt.want {
				t.Errorf("direction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := map[int]string{3: "+3", -2: "-2", 0: "0"}
	for delta, want := range tests {
		if got := formatDelta(delta); got != want {
			t.Errorf("formatDelta(%d) = %q, want %q", delta, got, want)
		}
	}
}
