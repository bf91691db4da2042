package simulation

import (
	"testing"
)

// AssertCooldownRespected asserts that no node is re-elected sooner than
// period+1 rounds after its previous election, and that no node passes the
// threshold while its cooldown is strictly inside (0, period).
func AssertCooldownRespected(t *testing.T, result SimulationResult) {
	t.Helper()
	minGap := result.Period + 1
	for _, rr := range result.Runs {
		for _, g := range rr.Gaps {
			if g < minGap {
				t.Errorf("AssertCooldownRespected: seed %d: re-election after %d rounds, want >= %d", rr.Seed, g, minGap)
			}
		}

		h := rr.History
		for r := 1; r < h.Rounds(); r++ {
			for n := range h.Nodes() {
				prev := h.Node(r-1, n).Cooldown
				if prev > 0 && prev < result.Period && h.Node(r, n).Eligible {
					t.Errorf("AssertCooldownRespected: seed %d: node %d eligible in round %d with cooldown %d", rr.Seed, n, r, prev)
				}
			}
		}
	}
}

// AssertCounterProgression asserts the cooldown counter only ever resets
// to 1 on election or advances by exactly one, and stays at zero until a
// node's first election.
func AssertCounterProgression(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, rr := range result.Runs {
		h := rr.History
		for n := range h.Nodes() {
			prev := 0
			for r := range h.Rounds() {
				st := h.Node(r, n)
				switch {
				case st.Clusterhead && st.Cooldown != 1:
					t.Errorf("AssertCounterProgression: seed %d: node %d round %d elected with cooldown %d", rr.Seed, n, r, st.Cooldown)
				case !st.Clusterhead && prev == 0 && st.Cooldown != 0:
					t.Errorf("AssertCounterProgression: seed %d: node %d round %d cooldown %d before any election", rr.Seed, n, r, st.Cooldown)
				case !st.Clusterhead && prev > 0 && st.Cooldown != prev+1:
					t.Errorf("AssertCounterProgression: seed %d: node %d round %d cooldown %d after %d", rr.Seed, n, r, st.Cooldown, prev)
				}
				if st.Clusterhead && !st.Eligible {
					t.Errorf("AssertCounterProgression: seed %d: node %d round %d elected without being eligible", rr.Seed, n, r)
				}
				prev = st.Cooldown
			}
		}
	}
}

// AssertElectionRate asserts that the mean fraction of nodes elected per
// round, over all runs, lies within [min, max].
func AssertElectionRate(t *testing.T, result SimulationResult, min, max float64) {
	t.Helper()
	rate := ElectionRate(result)
	if rate < min || rate > max {
		t.Errorf("AssertElectionRate: %s: rate %.4f not in [%.4f, %.4f]", result.Scenario.Name, rate, min, max)
	}
}

// AssertAllElectedBy asserts that every node has been elected at least once
// by the given zero-based round in every run.
func AssertAllElectedBy(t *testing.T, result SimulationResult, round int) {
	t.Helper()
	for _, rr := range result.Runs {
		for n, first := range rr.FirstElected {
			if first < 0 || first > round {
				t.Errorf("AssertAllElectedBy: seed %d: node %d first elected in round %d, want <= %d", rr.Seed, n, first, round)
			}
		}
	}
}

// AssertIdenticalRuns asserts that two results hold the same states for
// every run, round and node.
func AssertIdenticalRuns(t *testing.T, a, b SimulationResult) {
	t.Helper()
	if len(a.Runs) != len(b.Runs) {
		t.Fatalf("AssertIdenticalRuns: %d runs vs %d", len(a.Runs), len(b.Runs))
	}
	for i := range a.Runs {
		ha, hb := a.Runs[i].History, b.Runs[i].History
		for r := range ha.Rounds() {
			ra, rb := ha.Round(r), hb.Round(r)
			for n := range ra {
				if ra[n] != rb[n] {
					t.Errorf("AssertIdenticalRuns: run %d round %d node %d: %+v vs %+v", i, r, n, ra[n], rb[n])
				}
			}
		}
	}
}

// ElectionRate returns the mean fraction of nodes elected per round.
func ElectionRate(result SimulationResult) float64 {
	total, cells := 0, 0
	for _, rr := range result.Runs {
		total += rr.Total()
		cells += len(rr.Elections) * len(rr.FirstElected)
	}
	if cells == 0 {
		return 0
	}
	return float64(total) / float64(cells)
}

// MinGap returns the smallest re-election gap across all runs, or -1 if no
// node was ever re-elected.
func MinGap(result SimulationResult) int {
	minGap := -1
	for _, rr := range result.Runs {
		for _, g := range rr.Gaps {
			if minGap < 0 || g < minGap {
				minGap = g
			}
		}
	}
	return minGap
}
