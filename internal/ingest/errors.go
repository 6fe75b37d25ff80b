package ingest

import "errors"

var (
	// ErrNoIssuesKey is returned when a document has no top-level issues list.
	ErrNoIssuesKey = errors.New("document has no issues list")

	// ErrInvalidIssue is returned when an issue in a document cannot be
	// converted to a model.Issue.
	ErrInvalidIssue = errors.New("invalid issue")
)
