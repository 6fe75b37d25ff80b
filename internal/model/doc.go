// Package model defines the data structures shared by the sonarstash packages.
//
// This package contains the following main types:
//   - Severity: The closed set of SonarQube severities
//   - Issue: A single static-analysis finding with its rule identity
//   - Report: An ordered collection of issues for one analysis run
//   - PullRequestRef: The Stash pull request a report belongs to
package model
