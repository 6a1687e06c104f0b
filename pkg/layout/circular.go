package layout

import (
	"math"

	"github.com/matzehuels/netloom/pkg/topology"
)

// circular places nodes evenly around one circle in input order, starting at
// angle 0 with a step of 2π/n. The circle is centered at (radius, radius) so
// every coordinate stays non-negative for the diagram-editor geometry.
func circular(nodes []topology.Node, opts Options) map[string]topology.Position {
	positions := make(map[string]topology.Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		angle := float64(i) * step
		positions[n.ID] = topology.Position{
			X: opts.Radius + opts.Radius*math.Cos(angle),
			Y: opts.Radius + opts.Radius*math.Sin(angle),
		}
	}
	return positions
}
