package simulation_test

import (
	"fmt"
	"testing"

	"github.com/nvandessel/leach/internal/simulation"
)

// TestCooldownAcrossProbabilities runs several seeds per probability and
// checks that the re-election window is never shortened and that the
// tightest observed gap is exactly period+1.
func TestCooldownAcrossProbabilities(t *testing.T) {
	for _, p := range []float64{0.05, 0.1, 0.25, 0.35, 0.5, 0.7} {
		t.Run(fmt.Sprintf("p=%.2f", p), func(t *testing.T) {
			r := simulation.NewRunner(t)
			result := r.Run(simulation.Scenario{
				Name:        "cooldown",
				Nodes:       150,
				Rounds:      100,
				Probability: p,
				Seeds:       simulation.Seeds(1, 4),
			})

			simulation.AssertCooldownRespected(t, result)
			simulation.AssertCounterProgression(t, result)

			if got, want := simulation.MinGap(result), result.Period+1; got != want {
				t.Errorf("MinGap = %d, want %d", got, want)
			}
		})
	}
}

// TestScriptedReelection replays fixed draws through a five-node network
// with p = 0.5: everyone is elected in round 0, nobody can be elected in
// rounds 1 and 2, and the low draws win again in round 3.
func TestScriptedReelection(t *testing.T) {
	draws := []float64{
		0.4, 0.4, 0.4, 0.4, 0.4,
		0.4, 0.4, 0.4, 0.4, 0.4,
		0.4, 0.4, 0.4, 0.4, 0.4,
		0.1, 0.9, 0.2, 0.8, 0.3,
	}
	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:        "scripted",
		Nodes:       5,
		Rounds:      4,
		Probability: 0.5,
		Draws:       draws,
	})

	if len(result.Runs) != 1 {
		t.Fatalf("len(Runs) = %d, want 1", len(result.Runs))
	}
	rr := result.Runs[0]

	wantElections := []int{5, 0, 0, 3}
	for i, want := range wantElections {
		if rr.Elections[i] != want {
			t.Errorf("Elections[%d] = %d, want %d\n%s", i, rr.Elections[i], want, simulation.FormatRunDebug(rr))
		}
	}
	for n, first := range rr.FirstElected {
		if first != 0 {
			t.Errorf("FirstElected[%d] = %d, want 0", n, first)
		}
	}
	if len(rr.Gaps) != 3 {
		t.Fatalf("Gaps = %v, want three gaps of 3", rr.Gaps)
	}
	for _, g := range rr.Gaps {
		if g != 3 {
			t.Errorf("gap = %d, want 3", g)
		}
	}

	simulation.AssertCooldownRespected(t, result)
	simulation.AssertCounterProgression(t, result)
}
