package model

import "errors"

var (
	// ErrUnknownSeverity is returned when a severity is not one of
	// BLOCKER, CRITICAL, MAJOR, MINOR or INFO. Severities come from the
	// analysis engine, so this indicates a broken upstream contract.
	ErrUnknownSeverity = errors.New("unknown severity")

	// ErrInvalidPullRequest is returned when a pull request reference is
	// missing its project, repository or a positive id.
	ErrInvalidPullRequest = errors.New("invalid pull request reference")
)
