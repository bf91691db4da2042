package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const divider = "-----------------------------------------------------"

// WriteText renders a summary in the console layout: a header per round
// with θ, one line per node, then the four category lists.
func WriteText(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)

	for _, rs := range s.History {
		fmt.Fprintf(bw, "\nRound %d, theta = %.6f\n", rs.Round, rs.Theta)
		fmt.Fprintln(bw, divider)
		for i, n := range rs.Nodes {
			fmt.Fprintf(bw, "N%-5d: %.6f\t(Counted %d time(s))", i+1, n.Draw, n.Cooldown)
			if n.Clusterhead {
				bw.WriteString("\t<--- Clusterhead")
			}
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "Nodes below limit        : %s\n", list(rs.BelowLimit))
		fmt.Fprintf(bw, "Nodes potentially valid  : %s\n", list(rs.PotentiallyValid))
		fmt.Fprintf(bw, "Nodes excluded           : %s\n", list(rs.Excluded))
		fmt.Fprintf(bw, "Nodes valid clusterheads : %s\n", list(rs.Clusterheads))
	}

	return bw.Flush()
}

// WriteThresholds prints θ for each round of a probability schedule.
func WriteThresholds(w io.Writer, period int, thetas []float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Cooldown period: %d round(s)\n", period)
	for r, theta := range thetas {
		fmt.Fprintf(bw, "Round %d, theta = %.6f\n", r+1, theta)
	}
	return bw.Flush()
}

func list(labels []string) string {
	return "[" + strings.Join(labels, ", ") + "]"
}
