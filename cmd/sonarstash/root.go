package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/sonarstash/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sonarstash.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sonarstash",
		Short: "Render SonarQube issues for Stash pull requests",
		Long: `sonarstash turns the issues found by a SonarQube analysis into the Markdown
overview posted on a Stash (Bitbucket Server) pull request.

The overview counts new issues per severity, then lists the static-analysis
issues and the coverage issues. When there are more issues than the
configured threshold, only the counts are rendered.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// newLogger returns the credential-masking logger selected by --log-json.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLogs, _ = cmd.Root().PersistentFlags().GetBool("log-json")
	}
	if jsonLogs {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
