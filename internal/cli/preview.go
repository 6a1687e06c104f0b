package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/netloom/pkg/io"
	"github.com/matzehuels/netloom/pkg/layout"
	"github.com/matzehuels/netloom/pkg/pipeline"
	"github.com/matzehuels/netloom/pkg/render"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output   string // output path (default: snapshot base + .svg)
	strategy string // layout strategy
	groupBy  string // node grouping
	dotOnly  bool   // emit DOT source instead of SVG
}

// previewCommand creates the preview command. It renders a quick SVG of the
// topology through the Graphviz DOT sink, bypassing the artifact store.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [snapshot.json]",
		Short: "Render a quick SVG preview of a snapshot",
		Long: `Render a quick SVG preview of an assembled snapshot.

The preview goes through Graphviz: devices become shaped nodes (routers as
diamonds, switches as boxes), wireless links are dashed. It is meant for a
fast visual check, not for the 3D scene or diagram-editor exports.

Examples:
  netloom preview topology.json
  netloom preview topology.json -o site.svg
  netloom preview topology.json --dot       # print DOT source`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: snapshot name with .svg)")
	cmd.Flags().StringVarP(&opts.strategy, "layout", "l", "", "layout strategy: hierarchical, circular, grid")
	cmd.Flags().StringVar(&opts.groupBy, "group-by", "", "node grouping: kind, vendor, none")
	cmd.Flags().BoolVar(&opts.dotOnly, "dot", false, "emit DOT source instead of SVG")

	return cmd
}

// runPreview loads the snapshot and renders the DOT preview.
func (c *CLI) runPreview(ctx context.Context, input string, opts *previewOpts) error {
	logger := loggerFromContext(ctx)

	topo, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}

	popts := pipeline.NewOptions()
	if opts.strategy != "" {
		popts.Layout = layout.Strategy(opts.strategy)
	}
	if opts.groupBy != "" {
		popts.GroupBy = opts.groupBy
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	positions, err := layout.Compute(topo, popts.Layout, popts.LayoutOptions)
	if err != nil {
		return err
	}

	dot, err := render.DOT(topo, positions, popts.RenderOptions())
	if err != nil {
		return err
	}

	data := dot
	ext := ".dot"
	if !opts.dotOnly {
		spinner := newSpinnerWithContext(ctx, "Rendering preview...")
		spinner.Start()
		data, err = render.PreviewSVG(ctx, dot)
		if err != nil {
			spinner.StopWithError("Preview failed")
			return err
		}
		spinner.Stop()
		ext = ".svg"
	}

	output := opts.output
	if output == "" && !opts.dotOnly {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	if output != "" && output != "-" {
		logger.Debugf("Generated %s: %d bytes", output, len(data))
		printSuccess("Preview for %d devices", len(topo.Nodes))
		printFile(output)
	}
	return nil
}
