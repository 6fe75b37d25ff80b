package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nao1215/sonarstash/internal/config"
	"github.com/nao1215/sonarstash/internal/ingest"
	"github.com/nao1215/sonarstash/internal/model"
	"github.com/nao1215/sonarstash/internal/report"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [issue-file...]",
		Short: "Render issue files as a pull request overview",
		Long: `Render reads SonarQube issues and writes the pull request overview.

Issue files are YAML or JSON, either in the native layout or in the
SonarQube generic external issue layout produced by linters such as gosec.
Use "-" to read issues from standard input. Issues from several files are
concatenated in the order the files are given.

Examples:
  # Render the Stash overview to stdout
  sonarstash render --stash-url https://stash.example.com \
    --sonar-url https://sonar.example.com \
    --project PRJ --repository repo --pull-request 42 issues.json

  # Render GitHub-flavored Markdown to a file
  sonarstash render --format gfm -o overview.md issues.json

  # Render only the issues the pull request adds to the main branch
  sonarstash render --baseline main.json pr.json

  # Read gosec output from a pipe
  gosec -fmt sonarqube ./... | sonarstash render -

Configuration file (.sonarstash.yaml) example:
  stash:
    url: https://stash.example.com
    project: PRJ
    repository: repo
    pullRequestId: 42
  sonar:
    url: https://sonar.example.com
  issueThreshold: 100`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRenderCmd,
	}

	// Server flags
	cmd.Flags().String("stash-url", "", "Stash base URL")
	cmd.Flags().String("sonar-url", "", "SonarQube base URL used for rule links")

	// Pull request flags
	cmd.Flags().String("project", "", "Stash project key")
	cmd.Flags().String("repository", "", "Stash repository slug")
	cmd.Flags().Int("pull-request", 0, "Pull request id")

	// Report flags
	cmd.Flags().IntP("threshold", "t", config.DefaultIssueThreshold,
		"Maximum number of issues listed in the overview")
	cmd.Flags().StringP("format", "f", string(config.DefaultFormat),
		"Output format: stash, gfm, json or text")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	// Input flags
	cmd.Flags().StringP("baseline", "b", "",
		"Issue file of an earlier analysis; only issues missing from it are rendered")
	cmd.Flags().IntP("concurrency", "j", config.DefaultConcurrency,
		"Number of issue files read at the same time")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sonarstash.yaml in the current directory, XDG config dir or home)")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded",
		"stash_url", cfg.StashURL,
		"sonar_url", cfg.SonarURL,
		"pull_request", cfg.PullRequest.String(),
		"threshold", cfg.IssueThreshold,
		"format", string(cfg.Format),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return render(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

// render loads the issues named by cfg and writes the report.
func render(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	loader := ingest.NewLoader(
		ingest.WithConcurrency(cfg.Concurrency),
		ingest.WithLogger(logger),
		ingest.WithStdin(stdin),
	)
	loaded, err := loader.LoadAll(ctx, cfg.Inputs)
	if err != nil {
		return fmt.Errorf("failed to load issues: %w", err)
	}

	if cfg.Baseline != "" {
		baseline, err := loader.Load(cfg.Baseline)
		if err != nil {
			return fmt.Errorf("failed to load baseline: %w", err)
		}
		comparison := model.Compare(baseline, loaded.Issues)
		logger.Debug("baseline applied",
			"baseline", cfg.Baseline,
			"new", len(comparison.New),
			"unchanged", comparison.UnchangedCount,
		)
		loaded = model.NewReport(comparison.New...)
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("failed to load issues: %w", err)
	}
	logIssueSummary(logger, loaded)
	issues := loaded.Issues

	printer, err := cfg.NewPrinter()
	if err != nil {
		return err
	}

	output := stdout
	if cfg.OutputFile != "" {
		f, err := createOutputFile(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer, err := report.NewWriter(cfg.Format, output, printer, cfg.Verbose)
	if err != nil {
		return err
	}
	n, err := writer.Write(issues)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info("report written",
		"issues", len(issues),
		"bytes", n,
		"threshold_exceeded", printer.ThresholdExceeded(len(issues)),
	)
	return nil
}

// logIssueSummary logs the per-severity counts of the issues to render.
func logIssueSummary(logger *slog.Logger, issues *model.Report) {
	general, coverage := issues.Partition(model.IsCoverageIssue)
	attrs := []any{
		"issues", issues.Len(),
		"general", len(general),
		"coverage", len(coverage),
	}
	for _, sev := range model.Severities() {
		attrs = append(attrs, strings.ToLower(sev.String()), issues.CountBySeverity(sev))
	}
	logger.Debug("issues to render", attrs...)
}

// createOutputFile creates or truncates path, creating parent directories.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// getVerboseFlag returns the value of the persistent verbose flag.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig assembles the configuration: defaults, then the
// configuration file, then every flag the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Inputs = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit config path that does not exist is an error; a missing
	// default file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"stash-url":  &cfg.StashURL,
		"sonar-url":  &cfg.SonarURL,
		"project":    &cfg.PullRequest.Project,
		"repository": &cfg.PullRequest.Repository,
		"output":     &cfg.OutputFile,
		"baseline":   &cfg.Baseline,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	intFlags := map[string]*int{
		"pull-request": &cfg.PullRequest.PullRequestID,
		"threshold":    &cfg.IssueThreshold,
		"concurrency":  &cfg.Concurrency,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetInt(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("format") {
		format, err := flags.GetString("format")
		if err != nil {
			return nil, err
		}
		cfg.Format = report.Format(format)
	}

	return cfg, nil
}
