package report

// Outcome classifies what happened to a node in one round.
type Outcome string

const (
	OutcomeElected  Outcome = "elected"
	OutcomeWaiting  Outcome = "waiting"  // eligible but still inside the cooldown window
	OutcomeCooldown Outcome = "cooldown" // below threshold, counter advancing
	OutcomeIdle     Outcome = "idle"     // below threshold, never elected
)

// Decision is one node's election outcome in one round.
type Decision struct {
	Round    int
	Node     string
	Draw     float64
	Theta    float64
	Cooldown int
	Outcome  Outcome
}

// Fields returns the decision as a flat map for structured logs.
func (d Decision) Fields() map[string]any {
	return map[string]any{
		"round":    d.Round,
		"node":     d.Node,
		"draw":     d.Draw,
		"theta":    d.Theta,
		"cooldown": d.Cooldown,
		"outcome":  string(d.Outcome),
	}
}

func classify(n NodeEntry) Outcome {
	switch {
	case n.Clusterhead:
		return OutcomeElected
	case n.Eligible:
		return OutcomeWaiting
	case n.Cooldown > 0:
		return OutcomeCooldown
	default:
		return OutcomeIdle
	}
}

// Decisions flattens a summary into per-node decisions in round, then node order.
func Decisions(s Summary) []Decision {
	out := make([]Decision, 0, s.Rounds*s.Nodes)
	for _, rs := range s.History {
		for _, n := range rs.Nodes {
			out = append(out, Decision{
				Round:    rs.Round,
				Node:     n.Node,
				Draw:     n.Draw,
				Theta:    rs.Theta,
				Cooldown: n.Cooldown,
				Outcome:  classify(n),
			})
		}
	}
	return out
}
