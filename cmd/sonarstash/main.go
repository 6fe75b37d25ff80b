// Package main provides the entry point for the sonarstash CLI.
//
// sonarstash renders SonarQube analysis issues as the Markdown overview
// posted on Stash (Bitbucket Server) pull requests.
//
// Usage:
//
//	sonarstash render issues.json
//	sonarstash render --format gfm -o report.md issues.json
//
// See --help for all available options.
package main

func main() {
	Execute()
}
