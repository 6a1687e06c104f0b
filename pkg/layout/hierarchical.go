package layout

import "github.com/matzehuels/netloom/pkg/topology"

// hierarchical buckets nodes into rows via the fixed kind→layer table
// (topology.LayerFor) and places each row left-to-right in input order.
// Row membership depends only on the kind table and row position only on
// input order, so the result is stable across runs.
func hierarchical(nodes []topology.Node, opts Options) map[string]topology.Position {
	positions := make(map[string]topology.Position, len(nodes))
	columns := make(map[int]int) // layer → next free column

	for _, n := range nodes {
		layer := topology.LayerFor(n.Kind)
		col := columns[layer]
		columns[layer] = col + 1
		positions[n.ID] = topology.Position{
			X: float64(col) * opts.HSpacing,
			Y: float64(layer) * opts.VSpacing,
		}
	}
	return positions
}
