package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netloom/pkg/cache"
	"github.com/matzehuels/netloom/pkg/source"
	"github.com/matzehuels/netloom/pkg/store"
	"github.com/matzehuels/netloom/pkg/topology"
)

// Runner executes pipeline stages with injected collaborators.
//
// The Runner is stateless apart from its collaborators - it holds no run
// results. Multiple goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache // payload cache wrapped around source adapters
	Keyer  cache.Keyer // payload key derivation
	Store  store.Store // artifact persistence
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and artifact store.
// A nil cache disables payload caching, a nil store disables artifact
// writes, and a nil logger falls back to the package default.
func NewRunner(c cache.Cache, st store.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete assemble → layout → render → store pipeline.
//
// Option validation happens before any fetch, so a caller error (unknown
// strategy, unknown format) fails fast. Source failures degrade the topology
// and render failures are collected per format in Result.Errors; neither
// fails the run.
func (r *Runner) Execute(ctx context.Context, adapters []source.Adapter, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	topo, stats, err := r.assemble(ctx, adapters, opts)
	if err != nil {
		return nil, err
	}

	result, err := r.render(ctx, topo, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.SourceCount = stats.SourceCount
	result.Stats.FailedSources = stats.FailedSources
	result.Stats.FetchTime = stats.FetchTime
	result.Stats.MergeTime = stats.MergeTime

	return result, nil
}

// Assemble runs the collection half only: fetch → canonicalize → merge.
func (r *Runner) Assemble(ctx context.Context, adapters []source.Adapter, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	topo, stats, err := r.assemble(ctx, adapters, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Topology: topo, Stats: stats}, nil
}

// Render runs the export half only: layout → render → store. The topology is
// typically a snapshot produced by a previous Assemble.
func (r *Runner) Render(ctx context.Context, topo *topology.Topology, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	return r.render(ctx, topo, opts)
}

// Close releases the runner's collaborators.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set. It
// must run before ValidateAndSetDefaults, which fills a still-nil logger
// with a discard logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
