package model

import "fmt"

// RuleKey identifies the rule that raised an issue.
// SonarQube addresses rules as "<repository>:<rule>".
type RuleKey struct {
	// Repository is the rule repository, e.g. "squid" or "coverageEvolution-java".
	Repository string `json:"repository" yaml:"repository"`

	// Rule is the key of the rule inside its repository.
	Rule string `json:"rule" yaml:"rule"`
}

// String returns the rule key in "repository:rule" form.
func (k RuleKey) String() string {
	return k.Repository + ":" + k.Rule
}

// Issue is a single finding produced by an analysis run.
// Issues are treated as immutable once handed to the report package.
type Issue struct {
	// Key uniquely identifies the issue on the analysis server.
	Key string `json:"key" yaml:"key"`

	// Severity is one of the five SonarQube severities.
	Severity Severity `json:"severity" yaml:"severity"`

	// Message is the human-readable description of the finding.
	Message string `json:"message" yaml:"message"`

	// Rule is the rule that raised the issue.
	Rule RuleKey `json:"rule" yaml:"rule"`

	// FilePath is the path of the file the issue was raised on, relative
	// to the project root.
	FilePath string `json:"file,omitempty" yaml:"file,omitempty"`

	// Line is the 1-based line of the issue. Nil for file-level issues.
	Line *int `json:"line,omitempty" yaml:"line,omitempty"`
}

// Location returns "file:line", "file", or an empty string when the issue
// is not attached to a file.
func (i Issue) Location() string {
	switch {
	case i.FilePath == "":
		return ""
	case i.Line == nil:
		return i.FilePath
	default:
		return fmt.Sprintf("%s:%d", i.FilePath, *i.Line)
	}
}

// LineOf returns a pointer to n, for building issues in code.
func LineOf(n int) *int {
	return &n
}
