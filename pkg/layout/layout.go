// Package layout computes per-node positions for a topology.
//
// Every strategy is a pure function of the topology's node order and the
// supplied options: no randomness, no external state. Calling the same
// strategy twice on the same topology yields identical positions, which the
// export renderers rely on for reproducible artifacts.
//
// The strategy set is closed. Requesting anything outside it is a caller
// error and fails before any work is done.
package layout

import (
	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// =============================================================================
// Strategies - Closed Set
// =============================================================================

// Strategy names a layout algorithm.
type Strategy string

// Supported strategies.
const (
	// StrategyHierarchical buckets nodes into rows by kind: gateways on
	// top, the switching fabric and access points below, endpoints next,
	// sub-device interfaces last.
	StrategyHierarchical Strategy = "hierarchical"

	// StrategyCircular places nodes evenly around one circle.
	StrategyCircular Strategy = "circular"

	// StrategyGrid places nodes in row-major order with a fixed column
	// count. This is the default when no strategy is configured.
	StrategyGrid Strategy = "grid"
)

// DefaultStrategy is used when the caller does not name one.
const DefaultStrategy = StrategyGrid

// strategies is the closed registry of layout functions.
var strategies = map[Strategy]func(nodes []topology.Node, opts Options) map[string]topology.Position{
	StrategyHierarchical: hierarchical,
	StrategyCircular:     circular,
	StrategyGrid:         grid,
}

// Valid reports whether s names a supported strategy.
func Valid(s Strategy) bool {
	_, ok := strategies[s]
	return ok
}

// Strategies returns the supported strategy names in a fixed order.
func Strategies() []Strategy {
	return []Strategy{StrategyHierarchical, StrategyCircular, StrategyGrid}
}

// =============================================================================
// Options
// =============================================================================

// Default geometry values, chosen to keep diagram-editor exports readable
// without overlapping the fixed 120×60 vertex cells.
const (
	DefaultColumns  = 4
	DefaultSpacing  = 120.0
	DefaultHSpacing = 160.0
	DefaultVSpacing = 120.0
	DefaultRadius   = 300.0
)

// Options tunes the geometry of a layout strategy. Zero values fall back to
// the package defaults, so Options{} is always usable.
type Options struct {
	Columns  int     // grid: nodes per row
	Spacing  float64 // grid: cell spacing, both axes
	HSpacing float64 // hierarchical: spacing within a row
	VSpacing float64 // hierarchical: spacing between rows
	Radius   float64 // circular: circle radius
}

// withDefaults fills unset options with the package defaults.
func (o Options) withDefaults() Options {
	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	if o.Spacing <= 0 {
		o.Spacing = DefaultSpacing
	}
	if o.HSpacing <= 0 {
		o.HSpacing = DefaultHSpacing
	}
	if o.VSpacing <= 0 {
		o.VSpacing = DefaultVSpacing
	}
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	return o
}

// =============================================================================
// Compute - Strategy Dispatch
// =============================================================================

// Compute assigns a position to every node in the topology under the given
// strategy. An unknown strategy fails with UNKNOWN_LAYOUT_STRATEGY naming
// the offending value; nothing is computed in that case.
func Compute(topo *topology.Topology, strategy Strategy, opts Options) (map[string]topology.Position, error) {
	if strategy == "" {
		strategy = DefaultStrategy
	}
	fn, ok := strategies[strategy]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownStrategy, "unknown layout strategy: %q (supported: hierarchical, circular, grid)", strategy)
	}
	return fn(topo.Nodes, opts.withDefaults()), nil
}
