// Package ingest reads analysis issues from files.
//
// Two layouts are understood:
//   - The native layout, a list of issues as defined in the model package,
//     written as YAML or JSON
//   - The SonarQube generic external issue report (engineId, ruleId,
//     primaryLocation), as produced by gosec and other linters for import
//     into SonarQube
//
// Loader reads several files concurrently and concatenates their issues in
// the order the files were given, so the rendered report is deterministic.
package ingest
