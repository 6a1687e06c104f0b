package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/merge"
	"github.com/matzehuels/netloom/pkg/observability"
	"github.com/matzehuels/netloom/pkg/source"
	"github.com/matzehuels/netloom/pkg/topology"
)

// assemble fetches every adapter concurrently, canonicalizes the payloads in
// adapter order, and merges the batches into one Topology.
//
// A failed or timed-out source contributes an empty batch flagged in the
// topology metadata; the run proceeds with the remaining sources. Adapter
// order is preserved end to end because it carries the merge precedence.
func (r *Runner) assemble(ctx context.Context, adapters []source.Adapter, opts Options) (*topology.Topology, Stats, error) {
	stats := Stats{SourceCount: len(adapters)}
	if len(adapters) == 0 {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "no source adapters configured")
	}

	wrapped := r.wrapWithCache(adapters, opts)

	fetchStart := time.Now()
	for _, a := range wrapped {
		observability.Pipeline().OnFetchStart(ctx, string(a.Vendor()))
	}
	results := source.Collect(ctx, wrapped, opts.FetchTimeout)
	stats.FetchTime = time.Since(fetchStart)

	mergeStart := time.Now()
	batches := make([]source.Batch, 0, len(results))
	summaries := make([]topology.SourceSummary, 0, len(results))
	for _, res := range results {
		observability.Pipeline().OnFetchDone(ctx, string(res.Vendor), len(res.Payload), res.Duration, res.Err)

		batch, summary := r.canonicalizeResult(ctx, res, opts)
		if summary.Failed {
			stats.FailedSources++
		}
		batches = append(batches, batch)
		summaries = append(summaries, summary)
	}

	topo := merge.Merge(batches)
	topo.Metadata.Sources = summaries
	stats.MergeTime = time.Since(mergeStart)
	stats.NodeCount = len(topo.Nodes)
	stats.EdgeCount = len(topo.Edges)

	observability.Pipeline().OnMerge(ctx, len(topo.Nodes), len(topo.Edges), topo.Metadata.DroppedEdges)

	opts.Logger.Info("assembled topology",
		"nodes", len(topo.Nodes),
		"edges", len(topo.Edges),
		"sources", stats.SourceCount,
		"failed", stats.FailedSources,
		"dropped_edges", topo.Metadata.DroppedEdges,
		"duration", stats.FetchTime+stats.MergeTime)

	return topo, stats, nil
}

// wrapWithCache decorates each adapter with the payload cache unless the run
// requests fresh fetches.
func (r *Runner) wrapWithCache(adapters []source.Adapter, opts Options) []source.Adapter {
	if opts.Refresh || r.Cache == nil {
		return adapters
	}
	wrapped := make([]source.Adapter, len(adapters))
	for i, a := range adapters {
		wrapped[i] = source.NewCachedAdapter(a, r.Cache, r.Keyer, 0)
	}
	return wrapped
}

// canonicalizeResult turns one fetch result into a batch plus its provenance
// summary. Fetch and decode failures yield an empty batch, never an error:
// the pipeline degrades and the summary records why.
func (r *Runner) canonicalizeResult(ctx context.Context, res source.Result, opts Options) (source.Batch, topology.SourceSummary) {
	summary := topology.SourceSummary{Vendor: res.Vendor}

	if res.Err != nil {
		opts.Logger.Warn("source unavailable", "vendor", res.Vendor, "err", errors.UserMessage(res.Err))
		summary.Failed = true
		summary.Error = errors.UserMessage(res.Err)
		return source.Batch{Vendor: res.Vendor}, summary
	}

	c, err := source.CanonicalizerFor(res.Vendor)
	if err == nil {
		var batch *source.Batch
		batch, err = c.Canonicalize(res.Payload)
		if err == nil {
			observability.Pipeline().OnCanonicalize(ctx, string(res.Vendor), len(batch.Nodes), len(batch.Edges), batch.Skipped, nil)
			if batch.Skipped > 0 {
				opts.Logger.Warn("skipped records without identifiers", "vendor", res.Vendor, "skipped", batch.Skipped)
			}
			summary.Devices = len(batch.Nodes)
			summary.Links = len(batch.Edges)
			summary.Skipped = batch.Skipped
			return *batch, summary
		}
	}

	observability.Pipeline().OnCanonicalize(ctx, string(res.Vendor), 0, 0, 0, err)
	opts.Logger.Warn("source payload rejected", "vendor", res.Vendor, "err", errors.UserMessage(err))
	summary.Failed = true
	summary.Error = errors.UserMessage(err)
	return source.Batch{Vendor: res.Vendor}, summary
}
