package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/leach/internal/config"
	"github.com/nvandessel/leach/internal/leach"
	"github.com/nvandessel/leach/internal/report"
	"github.com/spf13/cobra"
)

func newThresholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Print the admission threshold for each round",
		Long: `Print θ(r) = p / (1 - p * ((r+1) mod period)) for a range of rounds,
together with the cooldown period (1/p, truncated).

Examples:
  leach threshold --probability 0.1 --rounds 20
  leach threshold --probability 0.35 --rounds 4 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("probability")
			rounds, _ := cmd.Flags().GetInt("rounds")

			p, err := config.ParseProbability(raw)
			if err != nil {
				return fmt.Errorf("invalid --probability: %w", err)
			}
			if rounds <= 0 {
				return fmt.Errorf("--rounds must be positive, got %d", rounds)
			}

			thetas := make([]float64, rounds)
			for r := range thetas {
				if thetas[r], err = leach.Threshold(p, r); err != nil {
					return err
				}
			}
			period := leach.Period(p)

			if jsonFlag(cmd) {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"probability": p,
					"period":      period,
					"thresholds":  thetas,
				})
			}
			return report.WriteThresholds(cmd.OutOrStdout(), period, thetas)
		},
	}

	cmd.Flags().String("probability", "0.1", "Admission probability p, strictly between 0 and 1")
	cmd.Flags().Int("rounds", 10, "Number of rounds to list")

	return cmd
}
