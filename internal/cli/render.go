package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netloom/pkg/errors"
	pkgio "github.com/matzehuels/netloom/pkg/io"
	"github.com/matzehuels/netloom/pkg/layout"
	"github.com/matzehuels/netloom/pkg/pipeline"
	"github.com/matzehuels/netloom/pkg/store"
)

// renderOpts holds the command-line flags for the render command. Zero
// values mean "keep the config file setting".
type renderOpts struct {
	formatsStr string  // comma-separated format list
	strategy   string  // layout strategy override
	groupBy    string  // node grouping override
	noDetails  bool    // drop descriptive attributes from rendered nodes
	noColor    bool    // plain diagram styles
	outputDir  string  // write artifacts to this directory instead of the configured store
	columns    int     // grid layout columns
	spacing    float64 // layout spacing override
}

// renderCommand creates the render command. It runs the export half of the
// pipeline: layout, render the selected formats, and write the artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render topology artifacts from a snapshot",
		Long: `Render topology artifacts from an assembled snapshot.

Artifact formats: json (canonical snapshot), graphml (graph interchange),
diagram (diagram-editor XML), scene (3D scene JSON), dot (Graphviz preview).
By default the four primary formats are rendered and written to the
configured artifact store; --output-dir redirects them to a directory.

A failing format is reported and skipped; the remaining formats still
render. The command fails only when no artifact could be produced.

Examples:
  netloom render topology.json
  netloom render topology.json -f scene,diagram
  netloom render topology.json -l hierarchical -o ./out
  netloom render topology.json --group-by vendor --no-color`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formatsStr, "format", "f", "", "artifact format(s), comma-separated (default from config)")
	cmd.Flags().StringVarP(&opts.strategy, "layout", "l", "", "layout strategy: hierarchical, circular, grid")
	cmd.Flags().StringVar(&opts.groupBy, "group-by", "", "node grouping: kind, vendor, none")
	cmd.Flags().BoolVar(&opts.noDetails, "no-details", false, "omit descriptive attributes from rendered nodes")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "plain diagram styles instead of per-kind colors")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "write artifacts to this directory instead of the configured store")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "grid layout column count")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", 0, "layout spacing between nodes")

	return cmd
}

// runRender loads the snapshot, applies flag overrides on top of the config,
// and renders the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	topo, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded snapshot: %d devices, %d links", len(topo.Nodes), len(topo.Edges))

	cfg, cfgPath, err := c.loadConfigOptional()
	if err != nil {
		return err
	}
	if cfg != nil {
		logger.Debugf("Using config %s", cfgPath)
	}

	popts := pipeline.NewOptions()
	if cfg != nil {
		popts = cfg.PipelineOptions()
	}
	applyRenderFlags(&popts, opts)
	popts.WriteArtifacts = true
	popts.Logger = logger

	var storeOverride store.Store
	if opts.outputDir != "" {
		storeOverride, err = store.NewFileStore(opts.outputDir)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, cfg, true, storeOverride)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Render(ctx, topo, popts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d of %d formats", len(result.Artifacts), len(popts.Formats)))

	return reportArtifacts(result, popts, opts.outputDir)
}

// applyRenderFlags overlays the set flags onto the pipeline options.
func applyRenderFlags(popts *pipeline.Options, opts *renderOpts) {
	if formats := parseFormats(opts.formatsStr); formats != nil {
		popts.Formats = formats
	}
	if opts.strategy != "" {
		popts.Layout = layout.Strategy(opts.strategy)
	}
	if opts.groupBy != "" {
		popts.GroupBy = opts.groupBy
	}
	if opts.noDetails {
		popts.IncludeDetails = false
	}
	if opts.noColor {
		popts.ColorCode = false
	}
	if opts.columns > 0 {
		popts.LayoutOptions.Columns = opts.columns
	}
	if opts.spacing > 0 {
		popts.LayoutOptions.Spacing = opts.spacing
	}
}

// reportArtifacts prints one line per requested format and decides the
// command outcome: success if anything rendered, error if nothing did.
func reportArtifacts(result *pipeline.Result, popts pipeline.Options, outputDir string) error {
	target := "store"
	if outputDir != "" {
		target = outputDir
	}

	rendered := 0
	for _, format := range popts.Formats {
		if ferr, failed := result.Errors[format]; failed {
			printError("%s: %s", format, errors.UserMessage(ferr))
			continue
		}
		rendered++
		name := result.Written[format]
		if name == "" {
			name = popts.OutputName(format)
		}
		printArtifact(format, name, len(result.Artifacts[format]))
	}

	if rendered == 0 {
		return errors.New(errors.ErrCodeRender, "all %d formats failed to render", len(popts.Formats))
	}

	printNewline()
	printSuccess("Wrote %d artifacts to %s in %s", rendered, target,
		(result.Stats.LayoutTime + result.Stats.RenderTime + result.Stats.StoreTime).Round(time.Millisecond))

	if failures := len(result.Errors); failures > 0 {
		formats := make([]string, 0, failures)
		for f := range result.Errors {
			formats = append(formats, f)
		}
		sort.Strings(formats)
		printWarning("%d format(s) failed: %v", failures, formats)
	}
	return nil
}
