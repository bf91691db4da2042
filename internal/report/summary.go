package report

import (
	"time"

	"github.com/nvandessel/leach/internal/leach"
)

// Summary is the serialisable form of a finished run.
type Summary struct {
	RunID       string         `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	CreatedAt   time.Time      `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	Seed        uint64         `json:"seed" yaml:"seed" msgpack:"seed"`
	Nodes       int            `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Rounds      int            `json:"rounds" yaml:"rounds" msgpack:"rounds"`
	Probability float64        `json:"probability" yaml:"probability" msgpack:"probability"`
	Period      int            `json:"period" yaml:"period" msgpack:"period"`
	History     []RoundSummary `json:"history" yaml:"history" msgpack:"history"`
}

// RoundSummary describes one round: its threshold, every node, and the
// display categories.
type RoundSummary struct {
	Round            int         `json:"round" yaml:"round" msgpack:"round"` // 1-based
	Theta            float64     `json:"theta" yaml:"theta" msgpack:"theta"`
	Nodes            []NodeEntry `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	BelowLimit       []string    `json:"below_limit" yaml:"below_limit" msgpack:"below_limit"`
	PotentiallyValid []string    `json:"potentially_valid" yaml:"potentially_valid" msgpack:"potentially_valid"`
	Excluded         []string    `json:"excluded" yaml:"excluded" msgpack:"excluded"`
	Clusterheads     []string    `json:"clusterheads" yaml:"clusterheads" msgpack:"clusterheads"`
}

// NodeEntry is one node's state in a round.
type NodeEntry struct {
	Node        string  `json:"node" yaml:"node" msgpack:"node"`
	Draw        float64 `json:"draw" yaml:"draw" msgpack:"draw"`
	Cooldown    int     `json:"cooldown" yaml:"cooldown" msgpack:"cooldown"`
	Eligible    bool    `json:"eligible" yaml:"eligible" msgpack:"eligible"`
	Clusterhead bool    `json:"clusterhead" yaml:"clusterhead" msgpack:"clusterhead"`
}

// Meta carries run identity that the simulator itself does not know.
type Meta struct {
	RunID     string
	Seed      uint64
	CreatedAt time.Time
}

// Summarize converts a history into a Summary.
func Summarize(h *leach.History, meta Meta) Summary {
	s := Summary{
		RunID:       meta.RunID,
		CreatedAt:   meta.CreatedAt.UTC(),
		Seed:        meta.Seed,
		Nodes:       h.Nodes(),
		Rounds:      h.Rounds(),
		Probability: h.Probability(),
		Period:      h.Period(),
		History:     make([]RoundSummary, 0, h.Rounds()),
	}

	for r, states := range h.All() {
		cats := Categorize(states)
		rs := RoundSummary{
			Round:            r + 1,
			Theta:            h.Threshold(r),
			Nodes:            make([]NodeEntry, len(states)),
			BelowLimit:       Labels(cats.BelowLimit),
			PotentiallyValid: Labels(cats.PotentiallyValid),
			Excluded:         Labels(cats.Excluded),
			Clusterheads:     Labels(cats.Clusterheads),
		}
		for n, st := range states {
			rs.Nodes[n] = NodeEntry{
				Node:        NodeLabel(n),
				Draw:        st.Draw,
				Cooldown:    st.Cooldown,
				Eligible:    st.Eligible,
				Clusterhead: st.Clusterhead,
			}
		}
		s.History = append(s.History, rs)
	}
	return s
}

// ClusterheadCount returns the number of nodes elected in the round.
func (rs RoundSummary) ClusterheadCount() int {
	return len(rs.Clusterheads)
}
