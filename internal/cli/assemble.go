package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/netloom/pkg/io"
	"github.com/matzehuels/netloom/pkg/pipeline"
	"github.com/matzehuels/netloom/pkg/render"
)

// assembleOpts holds the command-line flags for the assemble command.
type assembleOpts struct {
	output  string        // snapshot path ("-" for stdout)
	noCache bool          // disable the payload cache
	refresh bool          // bypass cached payloads for this run
	timeout time.Duration // per-source fetch timeout override
}

// assembleCommand creates the assemble command. It runs the collection half
// of the pipeline: fetch every configured source concurrently, canonicalize,
// merge, and write the topology snapshot.
func (c *CLI) assembleCommand() *cobra.Command {
	opts := assembleOpts{output: pipeline.DefaultOutputNames[render.FormatJSON]}

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble the merged topology from all configured sources",
		Long: `Assemble the merged topology from all configured sources.

Sources come from the [[sources]] section of netloom.toml; their file order
is the merge precedence order. Failed sources are reported and skipped, so
the snapshot still covers everything the reachable sources saw.

The snapshot can be rendered with 'netloom render' or browsed with
'netloom inspect'.

Examples:
  netloom assemble                      # write topology.json
  netloom assemble -o fabric-site.json  # custom snapshot path
  netloom assemble --refresh            # ignore cached payloads
  netloom assemble -o -                 # snapshot to stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAssemble(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "snapshot file (- for stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable payload caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached payloads")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-source fetch timeout (default from config)")

	return cmd
}

// runAssemble loads the config, fetches all sources, and writes the snapshot.
func (c *CLI) runAssemble(ctx context.Context, opts *assembleOpts) error {
	logger := loggerFromContext(ctx)

	cfg, path, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger.Debugf("Using config %s", path)

	adapters, err := cfg.Adapters()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := cfg.PipelineOptions()
	popts.Refresh = opts.refresh
	popts.Logger = logger
	if opts.timeout > 0 {
		popts.FetchTimeout = opts.timeout
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Assembling topology from %d sources...", len(adapters)))
	spinner.Start()

	result, err := runner.Assemble(ctx, adapters, popts)
	if err != nil {
		spinner.StopWithError("Assembly failed")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("assemble: %w", err)
	}

	stats := result.Stats
	if result.Degraded() {
		spinner.StopWithWarning(fmt.Sprintf("Assembled from %d of %d sources", stats.SourceCount-stats.FailedSources, stats.SourceCount))
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Assembled topology in %s", (stats.FetchTime + stats.MergeTime).Round(time.Millisecond)))
	}

	for _, s := range result.Topology.Metadata.Sources {
		if s.Failed {
			printDetail("%s %s: %s", iconError, s.Vendor, s.Error)
			continue
		}
		line := fmt.Sprintf("%s %s: %d devices, %d links", iconSuccess, s.Vendor, s.Devices, s.Links)
		if s.Skipped > 0 {
			line += fmt.Sprintf(" (%d records skipped)", s.Skipped)
		}
		printDetail("%s", line)
	}
	printTopologyStats(stats.NodeCount, stats.EdgeCount, stats.SourceCount, stats.FailedSources)

	if err := c.writeSnapshot(result, opts.output); err != nil {
		return err
	}

	if opts.output != "-" && opts.output != "" {
		printNewline()
		printNextStep("Render artifacts", fmt.Sprintf("%s render %s", appName, opts.output))
	}
	return nil
}

// writeSnapshot persists the assembled topology, atomically for file targets.
func (c *CLI) writeSnapshot(result *pipeline.Result, output string) error {
	if output == "-" || output == "" {
		return pkgio.WriteJSON(result.Topology, os.Stdout)
	}
	if err := pkgio.ExportJSON(result.Topology, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}
