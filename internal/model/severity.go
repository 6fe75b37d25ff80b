package model

import (
	"fmt"
)

// Severity represents the importance of a static-analysis issue.
// The set is closed: BLOCKER, CRITICAL, MAJOR, MINOR and INFO.
type Severity int

const (
	// SeverityBlocker marks issues that must be fixed before merging.
	SeverityBlocker Severity = iota

	// SeverityCritical marks issues with a high probability of impacting
	// the behavior of the application in production.
	SeverityCritical

	// SeverityMajor marks quality flaws that can highly impact developer
	// productivity.
	SeverityMajor

	// SeverityMinor marks quality flaws that slightly impact developer
	// productivity.
	SeverityMinor

	// SeverityInfo marks findings that are neither bugs nor quality flaws.
	SeverityInfo
)

// severityNames is indexed by Severity.
var severityNames = [...]string{
	SeverityBlocker:  "BLOCKER",
	SeverityCritical: "CRITICAL",
	SeverityMajor:    "MAJOR",
	SeverityMinor:    "MINOR",
	SeverityInfo:     "INFO",
}

// Severities returns every severity in display order, from the most to
// the least important. A new slice is returned on each call.
func Severities() []Severity {
	return []Severity{
		SeverityBlocker,
		SeverityCritical,
		SeverityMajor,
		SeverityMinor,
		SeverityInfo,
	}
}

// Valid reports whether s is one of the five known severities.
func (s Severity) Valid() bool {
	return s >= SeverityBlocker && s <= SeverityInfo
}

// String returns the upper-case SonarQube name of the severity.
func (s Severity) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// ParseSeverity converts a SonarQube severity name into a Severity.
// Matching is case-exact; anything else returns ErrUnknownSeverity.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeverity, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
