// Package config provides the configuration of sonarstash: the Stash and
// SonarQube base URLs, the pull request being reviewed, the issue display
// threshold and the render command settings. Values come from a YAML file
// found through FindConfigFile and are then overridden by CLI flags.
package config
