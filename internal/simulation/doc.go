// Package simulation provides a multi-run test harness for validating the
// long-run dynamics of the LEACH election rule.
//
// The harness drives the real leach.Simulator, with no mocks. A Scenario
// names the network shape and either a list of seeds or a fixed draw
// sequence. Each run's history is reduced to per-round election counts,
// first-election rounds and re-election gaps for property-based assertions.
//
// Usage:
//
//	func TestCooldown(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:        "cooldown",
//	        Nodes:       200,
//	        Rounds:      120,
//	        Probability: 0.1,
//	        Seeds:       simulation.Seeds(1, 8),
//	    })
//	    simulation.AssertCooldownRespected(t, result)
//	}
package simulation
