package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to tell which setting is wrong.
var (
	// ErrMissingStashURL is returned when no Stash base URL is configured.
	ErrMissingStashURL = errors.New("stash URL is not set: use --stash-url or stash.url in the config file")

	// ErrMissingSonarURL is returned when no SonarQube base URL is configured.
	ErrMissingSonarURL = errors.New("sonarqube URL is not set: use --sonar-url or sonar.url in the config file")

	// ErrInvalidIssueThreshold is returned when the issue threshold is not positive.
	ErrInvalidIssueThreshold = errors.New("invalid issue threshold: must be positive")

	// ErrInvalidPullRequest is returned when the pull request reference is incomplete.
	ErrInvalidPullRequest = errors.New("invalid pull request: project, repository and a positive id are required")

	// ErrUnknownFormat is returned when the output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format: must be one of stash, gfm, json, text")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
)
