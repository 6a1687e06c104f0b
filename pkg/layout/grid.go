package layout

import "github.com/matzehuels/netloom/pkg/topology"

// grid places nodes in row-major order: node i lands in column i%columns of
// row i/columns, at cell-spacing intervals on both axes.
func grid(nodes []topology.Node, opts Options) map[string]topology.Position {
	positions := make(map[string]topology.Position, len(nodes))
	for i, n := range nodes {
		positions[n.ID] = topology.Position{
			X: float64(i%opts.Columns) * opts.Spacing,
			Y: float64(i/opts.Columns) * opts.Spacing,
		}
	}
	return positions
}
