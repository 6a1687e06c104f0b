package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/layout"
	"github.com/matzehuels/netloom/pkg/observability"
	"github.com/matzehuels/netloom/pkg/render"
	"github.com/matzehuels/netloom/pkg/topology"
)

// render computes positions and produces every requested artifact format.
//
// Render failures are scoped: a format whose renderer fails is recorded in
// Result.Errors and the remaining formats still render. The same isolation
// applies to store writes, so one unwritable artifact never suppresses the
// others. Only an unknown layout strategy fails the whole request, and that
// is caught during option validation before this stage runs.
func (r *Runner) render(ctx context.Context, topo *topology.Topology, opts Options) (*Result, error) {
	if topo == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no topology to render")
	}

	result := &Result{
		Topology:  topo,
		Artifacts: make(map[string][]byte),
		Written:   make(map[string]string),
		Errors:    make(map[string]error),
	}
	result.Stats.NodeCount = len(topo.Nodes)
	result.Stats.EdgeCount = len(topo.Edges)

	// Layout. Positions are computed fresh per render request and never
	// persisted; every strategy is deterministic over the node order.
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(opts.Layout), len(topo.Nodes))
	positions, err := layout.Compute(topo, opts.Layout, opts.LayoutOptions)
	observability.Pipeline().OnLayoutDone(ctx, string(opts.Layout), time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Positions = positions
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Debug("computed layout",
		"strategy", opts.Layout,
		"nodes", len(positions),
		"duration", result.Stats.LayoutTime)

	// Render each format independently.
	renderStart := time.Now()
	renderOpts := opts.RenderOptions()
	for _, format := range opts.Formats {
		fmtStart := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)

		renderer, err := render.RendererFor(format)
		if err == nil {
			var data []byte
			data, err = renderer(topo, positions, renderOpts)
			if err == nil {
				result.Artifacts[format] = data
			}
		}
		observability.Pipeline().OnRenderDone(ctx, format, len(result.Artifacts[format]), time.Since(fmtStart), err)

		if err != nil {
			opts.Logger.Error("render failed", "format", format, "err", errors.UserMessage(err))
			result.Errors[format] = err
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"failed", len(result.Errors),
		"duration", result.Stats.RenderTime)

	if opts.WriteArtifacts {
		r.store(ctx, result, opts)
	}

	return result, nil
}

// store writes every rendered artifact, isolating failures per format.
func (r *Runner) store(ctx context.Context, result *Result, opts Options) {
	if r.Store == nil {
		opts.Logger.Debug("no artifact store configured, skipping writes")
		return
	}

	storeStart := time.Now()
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue // renderer failed, already recorded
		}
		name := opts.OutputName(format)

		writeStart := time.Now()
		err := r.Store.Write(ctx, name, data)
		observability.Store().OnWrite(ctx, name, len(data), time.Since(writeStart), err)

		if err != nil {
			opts.Logger.Error("store write failed", "artifact", name, "err", errors.UserMessage(err))
			result.Errors[format] = err
			continue
		}
		result.Written[format] = name
		opts.Logger.Debug("wrote artifact", "artifact", name, "bytes", len(data))
	}
	result.Stats.StoreTime = time.Since(storeStart)
}
