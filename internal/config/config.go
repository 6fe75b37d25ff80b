package config

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/sonarstash/internal/model"
	"github.com/nao1215/sonarstash/internal/report"
)

// Default configuration values.
const (
	// DefaultIssueThreshold is the largest number of issues that are still
	// listed in the overview. Above it only the per-severity counts are
	// rendered.
	DefaultIssueThreshold = 100

	// DefaultConcurrency is the number of issue files read at the same time.
	DefaultConcurrency = 4

	// DefaultFormat is the output format of the render command.
	DefaultFormat = report.FormatStash

	// AppName is the application name used for XDG directory paths.
	AppName = "sonarstash"
)

// Config holds all configuration options for sonarstash.
// It is populated from the configuration file and CLI flags, then passed
// to the render command. Nothing reads it from global state.
type Config struct {
	// StashURL is the base URL of the Stash (Bitbucket Server) instance
	// the report is posted to.
	StashURL string

	// SonarURL is the base URL of the SonarQube server. Rule links in the
	// report point to its coding_rules page.
	SonarURL string

	// PullRequest identifies the pull request the report is meant for.
	PullRequest model.PullRequestRef

	// IssueThreshold is the largest number of issues that are listed.
	// Must be positive.
	IssueThreshold int

	// Format is the output format of the render command.
	Format report.Format

	// OutputFile is where the report is written. Empty means stdout.
	OutputFile string

	// Inputs are the issue files to render.
	Inputs []string

	// Baseline is an issue file from an earlier analysis. When set, only
	// the issues it does not contain are rendered.
	Baseline string

	// Concurrency is the number of issue files read at the same time.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// URLs and the pull request have no sensible default and stay empty.
func NewConfig() *Config {
	return &Config{
		IssueThreshold: DefaultIssueThreshold,
		Format:         DefaultFormat,
		Concurrency:    DefaultConcurrency,
	}
}

// XDGConfigDir returns the XDG config directory for sonarstash.
// On Linux: ~/.config/sonarstash
// On macOS: ~/Library/Application Support/sonarstash
// On Windows: %APPDATA%\sonarstash
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the path of the configuration file inside the XDG
// config directory.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), XDGConfigFileName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.StashURL == "" {
		return ErrMissingStashURL
	}
	if c.SonarURL == "" {
		return ErrMissingSonarURL
	}
	if c.IssueThreshold <= 0 {
		return ErrInvalidIssueThreshold
	}
	if err := c.PullRequest.Validate(); err != nil {
		return errors.Join(ErrInvalidPullRequest, err)
	}
	if _, err := report.ParseFormat(string(c.Format)); err != nil {
		return ErrUnknownFormat
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// NewPrinter builds the MarkdownPrinter described by the configuration.
func (c *Config) NewPrinter(opts ...report.PrinterOption) (*report.MarkdownPrinter, error) {
	return report.NewMarkdownPrinter(c.StashURL, c.PullRequest, c.IssueThreshold, c.SonarURL, opts...)
}
