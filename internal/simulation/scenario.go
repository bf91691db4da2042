package simulation

import "github.com/nvandessel/leach/internal/leach"

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name        string
	Nodes       int
	Rounds      int
	Probability float64
	Workers     int

	// Seeds lists one run per seed. Ignored when Draws is set.
	Seeds []uint64

	// Draws, when non-empty, replaces the seeded generator with a fixed
	// round-major sequence (cycled if short) and produces a single run.
	Draws []float64
}

// Seeds returns n consecutive seeds starting at first.
func Seeds(first uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = first + uint64(i)
	}
	return out
}

// RunResult captures one simulated history and the measurements derived
// from it.
type RunResult struct {
	Seed    uint64
	History *leach.History

	// Elections[r] is the number of clusterheads elected in round r.
	Elections []int

	// FirstElected[n] is the first round node n was elected, or -1.
	FirstElected []int

	// Gaps lists, for every re-election, the rounds since the node's
	// previous election.
	Gaps []int
}

// Total returns the number of elections over the whole run.
func (rr RunResult) Total() int {
	total := 0
	for _, e := range rr.Elections {
		total += e
	}
	return total
}

// SimulationResult captures every run of a scenario.
type SimulationResult struct {
	Scenario Scenario
	Period   int
	Runs     []RunResult
}
