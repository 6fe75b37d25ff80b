package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nao1215/sonarstash/internal/model"
	"golang.org/x/sync/errgroup"
)

// StdinPath is the path that makes Load read from standard input.
const StdinPath = "-"

// Loader reads issue files, several at a time.
type Loader struct {
	concurrency int
	logger      *slog.Logger
	stdin       io.Reader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConcurrency sets the maximum number of files read at the same time.
// Values below 1 are ignored.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger used to report progress.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithStdin sets the reader used for the "-" path.
func WithStdin(r io.Reader) LoaderOption {
	return func(l *Loader) {
		l.stdin = r
	}
}

// NewLoader creates a Loader. By default it reads four files at a time
// and logs through slog.Default().
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		concurrency: 4,
		stdin:       os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load reads the issues of a single file. The path "-" reads standard input.
func (l *Loader) Load(path string) ([]model.Issue, error) {
	if path == StdinPath {
		return Decode(l.stdin, "stdin")
	}

	f, err := os.Open(path) //nolint:gosec // Reading user-provided issue files is the purpose
	if err != nil {
		return nil, fmt.Errorf("failed to open issue file: %w", err)
	}
	defer f.Close()

	return Decode(f, path)
}

// LoadAll reads every path and returns a report of their issues in the
// order of paths. The first error cancels the remaining reads.
func (l *Loader) LoadAll(ctx context.Context, paths []string) (*model.Report, error) {
	l.logger.Debug("loading issue files",
		"files", len(paths),
		"concurrency", l.concurrency,
	)
	start := time.Now()

	// One slot per path keeps the input order without locking.
	results := make([][]model.Issue, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			issues, err := l.Load(path)
			if err != nil {
				return err
			}
			results[i] = issues

			l.logger.Debug("issue file loaded", "file", path, "issues", len(issues))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := model.NewReport()
	for _, issues := range results {
		all.Add(issues...)
	}

	l.logger.Info("issues loaded",
		"files", len(paths),
		"issues", all.Len(),
		"duration", time.Since(start),
	)
	return all, nil
}
