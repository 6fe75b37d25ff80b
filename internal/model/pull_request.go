package model

import "fmt"

// PullRequestRef identifies a pull request on the Stash server.
// It is metadata for the code that posts the report; the rendered
// Markdown does not include it.
type PullRequestRef struct {
	// Project is the Stash project key.
	Project string `json:"project" yaml:"project"`

	// Repository is the repository slug inside the project.
	Repository string `json:"repository" yaml:"repository"`

	// PullRequestID is the numeric pull request id.
	PullRequestID int `json:"pull_request_id" yaml:"pullRequestId"`
}

// String returns "project/repository#id".
func (p PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Project, p.Repository, p.PullRequestID)
}

// Validate checks that all three parts of the reference are present.
func (p PullRequestRef) Validate() error {
	if p.Project == "" {
		return fmt.Errorf("%w: project is empty", ErrInvalidPullRequest)
	}
	if p.Repository == "" {
		return fmt.Errorf("%w: repository is empty", ErrInvalidPullRequest)
	}
	if p.PullRequestID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidPullRequest, p.PullRequestID)
	}
	return nil
}
