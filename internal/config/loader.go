package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/sonarstash/internal/report"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the configuration file name looked up in the
	// working directory and the home directory.
	DefaultConfigFile = ".sonarstash.yaml"

	// XDGConfigFileName is the configuration file name inside the XDG
	// config directory.
	XDGConfigFileName = "config.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the sonarstash configuration file.
type File struct {
	Stash StashSection `yaml:"stash"`
	Sonar SonarSection `yaml:"sonar"`

	// IssueThreshold overrides DefaultIssueThreshold when positive.
	IssueThreshold int `yaml:"issueThreshold,omitempty"`

	// Format overrides DefaultFormat when set.
	Format string `yaml:"format,omitempty"`

	// Concurrency overrides DefaultConcurrency when positive.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// StashSection holds the Stash server and pull request settings.
type StashSection struct {
	URL           string `yaml:"url,omitempty"`
	Project       string `yaml:"project,omitempty"`
	Repository    string `yaml:"repository,omitempty"`
	PullRequestID int    `yaml:"pullRequestId,omitempty"`
}

// SonarSection holds the SonarQube server settings.
type SonarSection struct {
	URL string `yaml:"url,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// Apply copies every value set in the file into cfg.
// Empty strings and non-positive numbers leave cfg untouched, so defaults
// survive.
func (cf *File) Apply(cfg *Config) {
	if cf.Stash.URL != "" {
		cfg.StashURL = cf.Stash.URL
	}
	if cf.Stash.Project != "" {
		cfg.PullRequest.Project = cf.Stash.Project
	}
	if cf.Stash.Repository != "" {
		cfg.PullRequest.Repository = cf.Stash.Repository
	}
	if cf.Stash.PullRequestID > 0 {
		cfg.PullRequest.PullRequestID = cf.Stash.PullRequestID
	}
	if cf.Sonar.URL != "" {
		cfg.SonarURL = cf.Sonar.URL
	}
	if cf.IssueThreshold > 0 {
		cfg.IssueThreshold = cf.IssueThreshold
	}
	if cf.Format != "" {
		cfg.Format = report.Format(cf.Format)
	}
	if cf.Concurrency > 0 {
		cfg.Concurrency = cf.Concurrency
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sonarstash.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .sonarstash.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
