package model

import "strings"

// CoverageRepositoryPrefix prefixes the rule repositories that hold the
// synthetic coverage-evolution rules, one repository per language.
const CoverageRepositoryPrefix = "coverageEvolution-"

// CoveragePredicate decides whether an issue is a coverage issue.
// Every issue is either a coverage issue or a general one, never both.
type CoveragePredicate func(Issue) bool

// CoverageEvolutionRepository returns the coverage rule repository name for
// the given language, e.g. "coverageEvolution-java".
func CoverageEvolutionRepository(language string) string {
	return CoverageRepositoryPrefix + language
}

// IsCoverageIssue is the default CoveragePredicate. It only looks at the
// rule repository, never at the severity.
func IsCoverageIssue(issue Issue) bool {
	return strings.HasPrefix(issue.Rule.Repository, CoverageRepositoryPrefix)
}
