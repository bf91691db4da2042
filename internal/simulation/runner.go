package simulation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/nvandessel/leach/internal/leach"
)

// Runner orchestrates multi-run simulation experiments against the real
// simulator.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner bound to t.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results. Any
// simulator error fails the test immediately.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()

	cfg := leach.Config{
		Nodes:       scenario.Nodes,
		Rounds:      scenario.Rounds,
		Probability: scenario.Probability,
		Workers:     scenario.Workers,
		Logger:      slogt.New(r.t),
	}

	result := SimulationResult{
		Scenario: scenario,
		Period:   leach.Period(scenario.Probability),
	}

	if len(scenario.Draws) > 0 {
		src := &leach.SliceSource{Draws: scenario.Draws}
		result.Runs = append(result.Runs, r.runOnce(cfg, 0, src))
		return result
	}

	if len(scenario.Seeds) == 0 {
		r.t.Fatalf("Run %s: scenario needs Seeds or Draws", scenario.Name)
	}
	for _, seed := range scenario.Seeds {
		result.Runs = append(result.Runs, r.runOnce(cfg, seed, leach.NewSource(seed)))
	}
	return result
}

func (r *Runner) runOnce(cfg leach.Config, seed uint64, src leach.Source) RunResult {
	r.t.Helper()

	h, err := leach.Simulate(context.Background(), cfg, src)
	if err != nil {
		r.t.Fatalf("Run: seed %d: %v", seed, err)
	}
	return measure(seed, h)
}

// measure reduces a history to election counts, first elections and gaps.
func measure(seed uint64, h *leach.History) RunResult {
	rr := RunResult{
		Seed:         seed,
		History:      h,
		Elections:    make([]int, h.Rounds()),
		FirstElected: make([]int, h.Nodes()),
	}
	last := make([]int, h.Nodes())
	for n := range rr.FirstElected {
		rr.FirstElected[n] = -1
		last[n] = -1
	}

	for r, states := range h.All() {
		for n, st := range states {
			if !st.Clusterhead {
				continue
			}
			rr.Elections[r]++
			if last[n] >= 0 {
				rr.Gaps = append(rr.Gaps, r-last[n])
			} else {
				rr.FirstElected[n] = r
			}
			last[n] = r
		}
	}
	return rr
}

// FormatRunDebug returns a per-round election count listing for a run.
func FormatRunDebug(rr RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run seed=%d elections=%d\n", rr.Seed, rr.Total())
	for r, e := range rr.Elections {
		fmt.Fprintf(&b, "  round %d: theta=%.4f elected=%d\n", r+1, rr.History.Threshold(r), e)
	}
	return b.String()
}
