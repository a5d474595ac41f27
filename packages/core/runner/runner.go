package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/tickspec/packages/core/loader"
	"github.com/abdul-hamid-achik/tickspec/packages/core/parser"
	"github.com/abdul-hamid-achik/tickspec/packages/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency parses one blob at a time.
	DefaultConcurrency = 1
)

type Runner struct {
	config *Config
	logger *slog.Logger
}

type Config struct {
	Pattern     string
	Join        parser.JoinMode
	Concurrency int
	Logger      *slog.Logger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	cfg = &c
	if cfg.Pattern == "" {
		cfg.Pattern = loader.DefaultPattern
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	logger := logging.ForComponent("runner")
	if cfg.Logger != nil {
		logger = cfg.Logger.With("component", "runner")
	}

	return &Runner{
		config: cfg,
		logger: logger,
	}
}

type Result struct {
	Root     string
	RunID    string
	Groups   []*parser.Group
	Summary  Summary
	Outcome  Outcome
	Duration time.Duration
}

// Run discovers, loads and parses everything under root, then decides.
func (r *Runner) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)

	groups, err := r.parse(ctx, logger, root)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Root:     root,
		RunID:    runID,
		Groups:   groups,
		Summary:  Summarize(groups),
		Outcome:  Decide(groups),
		Duration: time.Since(start),
	}

	logger.Info("run finished",
		"outcome", result.Outcome.String(),
		"groups", result.Summary.Groups,
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"duration", result.Duration,
	)

	return result, nil
}

// Parse discovers, loads and parses everything under root without deciding.
func (r *Runner) Parse(ctx context.Context, root string) ([]*parser.Group, error) {
	return r.parse(ctx, r.logger, root)
}

func (r *Runner) parse(ctx context.Context, logger *slog.Logger, root string) ([]*parser.Group, error) {
	paths, err := loader.Discover(root, r.config.Pattern)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered specifications", "root", root, "pattern", r.config.Pattern, "files", len(paths))

	blobs, err := loader.Load(paths)
	if err != nil {
		return nil, err
	}

	groups, err := r.parseAll(ctx, blobs)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		for _, a := range g.Assertions {
			if a.Mismatch() {
				logger.Warn("unrecognised truth token, counting as failed",
					"file", g.Path, "line", a.Line, "token", a.Token)
			}
		}
	}

	return groups, nil
}

// parseAll keeps discovery order. When several blobs are malformed the one
// discovered first is reported.
func (r *Runner) parseAll(ctx context.Context, blobs []loader.Blob) ([]*parser.Group, error) {
	groups := make([]*parser.Group, len(blobs))
	errs := make([]error, len(blobs))

	var g errgroup.Group
	g.SetLimit(r.config.Concurrency)

	for i, blob := range blobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			groups[i], errs[i] = parser.Parse(blob.Content, blob.Path, parser.WithJoinMode(r.config.Join))
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}
