package leach

import "slices"

// NodeRoundState is the state of one node in one round.
type NodeRoundState struct {
	// Draw is the node's random draw in [0,1) for this round. It is fixed
	// by Initialize and never changes afterwards.
	Draw float64 `json:"draw" yaml:"draw"`

	// Cooldown counts rounds since the node was last elected. Zero means
	// the node has never been elected.
	Cooldown int `json:"cooldown" yaml:"cooldown"`

	// Clusterhead is set when the node was newly elected in this round.
	Clusterhead bool `json:"clusterhead" yaml:"clusterhead"`

	// Eligible is set when the draw did not exceed the node's effective
	// threshold. Clusterhead implies Eligible.
	Eligible bool `json:"eligible" yaml:"eligible"`
}

// grid is a fixed arena of rounds*nodes cells. Round r occupies the
// contiguous range [r*nodes, (r+1)*nodes).
type grid struct {
	nodes  int
	rounds int
	cells  []NodeRoundState
}

func newGrid(nodes, rounds int) grid {
	return grid{
		nodes:  nodes,
		rounds: rounds,
		cells:  make([]NodeRoundState, nodes*rounds),
	}
}

// snapshot returns the live slice backing round r.
func (g *grid) snapshot(r int) []NodeRoundState {
	return g.cells[r*g.nodes : (r+1)*g.nodes : (r+1)*g.nodes]
}

// History is a read-only view of a fully simulated grid.
// All accessors return copies; the underlying grid is never exposed.
type History struct {
	g          grid
	p          float64
	period     int
	thresholds []float64
}

// Rounds reports the number of simulated rounds.
func (h *History) Rounds() int { return h.g.rounds }

// Nodes reports the number of nodes per round.
func (h *History) Nodes() int { return h.g.nodes }

// Probability reports the configured admission probability.
func (h *History) Probability() float64 { return h.p }

// Period reports the truncated cooldown period ⌊1/p⌋.
func (h *History) Period() int { return h.period }

// Threshold returns the global admission threshold used for round r.
// It panics if r is out of range, like a slice index.
func (h *History) Threshold(r int) float64 { return h.thresholds[r] }

// Round returns a copy of every node's state in round r, in node order.
func (h *History) Round(r int) []NodeRoundState {
	if r < 0 || r >= h.g.rounds {
		panic("leach: round index out of range")
	}
	return slices.Clone(h.g.snapshot(r))
}

// Node returns the state of node n (0-based) in round r.
func (h *History) Node(r, n int) NodeRoundState {
	if n < 0 || n >= h.g.nodes {
		panic("leach: node index out of range")
	}
	return h.g.snapshot(r)[n]
}

// All returns an iterator over rounds in increasing order.
// Each yielded slice is a copy.
func (h *History) All() func(yield func(int, []NodeRoundState) bool) {
	return func(yield func(int, []NodeRoundState) bool) {
		for r := 0; r < h.g.rounds; r++ {
			if !yield(r, h.Round(r)) {
				return
			}
		}
	}
}
