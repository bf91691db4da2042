// Package report renders simulated LEACH histories for people and tools.
//
// Nothing here feeds back into the simulation: categories and summaries are
// derived purely from the Eligible and Clusterhead flags of each round.
package report

import (
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/nvandessel/leach/internal/leach"
)

// Categories partitions the nodes of one round into the four display groups.
// Bit i refers to node i (0-based).
type Categories struct {
	BelowLimit       *bitset.BitSet // not eligible
	PotentiallyValid *bitset.BitSet // eligible
	Excluded         *bitset.BitSet // not eligible or not elected
	Clusterheads     *bitset.BitSet // elected this round
}

// Categorize builds the display groups for one round's states.
func Categorize(states []leach.NodeRoundState) Categories {
	n := uint(len(states))
	c := Categories{
		BelowLimit:       bitset.New(n),
		PotentiallyValid: bitset.New(n),
		Excluded:         bitset.New(n),
		Clusterheads:     bitset.New(n),
	}

	for i, st := range states {
		idx := uint(i)
		if st.Eligible {
			c.PotentiallyValid.Set(idx)
		} else {
			c.BelowLimit.Set(idx)
		}
		if !st.Eligible || !st.Clusterhead {
			c.Excluded.Set(idx)
		}
		if st.Clusterhead {
			c.Clusterheads.Set(idx)
		}
	}
	return c
}

// NodeLabel returns the 1-based display name of a 0-based node index.
func NodeLabel(i int) string {
	return "N" + strconv.Itoa(i+1)
}

// Labels lists the display names of the set bits in node order.
func Labels(bs *bitset.BitSet) []string {
	out := make([]string, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		out = append(out, NodeLabel(int(i)))
	}
	return out
}

// EverElected returns the nodes that were clusterhead in at least one round.
func EverElected(h *leach.History) *bitset.BitSet {
	acc := bitset.New(uint(h.Nodes()))
	for _, states := range h.All() {
		acc.InPlaceUnion(Categorize(states).Clusterheads)
	}
	return acc
}

// NeverElected lists the nodes that were never clusterhead.
func NeverElected(h *leach.History) []string {
	return Labels(EverElected(h).Complement())
}
