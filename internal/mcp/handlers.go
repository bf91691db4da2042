package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/leach/internal/leach"
	"github.com/nvandessel/leach/internal/ratelimit"
	"github.com/nvandessel/leach/internal/report"
	"github.com/nvandessel/leach/internal/runner"
)

func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (_ *sdk.CallToolResult, _ SimulateOutput, retErr error) {
	start := s.now()
	defer func() {
		s.log.Info("tool call",
			"tool", "leach_simulate",
			"duration", time.Since(start),
			"ok", retErr == nil)
	}()

	if err := ratelimit.CheckLimit(s.limiters, "leach_simulate", start); err != nil {
		return nil, SimulateOutput{}, err
	}
	if args.Nodes > 0 && args.Rounds > 0 && args.Nodes > s.maxCells/args.Rounds {
		return nil, SimulateOutput{}, fmt.Errorf("nodes*rounds exceeds the limit of %d cells", s.maxCells)
	}

	res, err := s.runner.Run(ctx, runner.Params{
		Nodes:       args.Nodes,
		Rounds:      args.Rounds,
		Probability: args.Probability,
		Seed:        args.Seed,
	})
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	out := SimulateOutput{
		RunID:        res.RunID,
		Seed:         res.Seed,
		Period:       res.Summary.Period,
		Rounds:       make([]RoundBrief, 0, len(res.Summary.History)),
		NeverElected: report.NeverElected(res.History),
	}
	for i := range res.Summary.History {
		rs := &res.Summary.History[i]
		brief := RoundBrief{
			Round:        rs.Round,
			Theta:        rs.Theta,
			Clusterheads: rs.Clusterheads,
		}
		if args.Decisions {
			brief.Detail = rs
		}
		out.Elections += rs.ClusterheadCount()
		out.Rounds = append(out.Rounds, brief)
	}
	out.MeanPerRound = float64(out.Elections) / float64(len(out.Rounds))

	return nil, out, nil
}

func (s *Server) handleThreshold(ctx context.Context, req *sdk.CallToolRequest, args ThresholdInput) (_ *sdk.CallToolResult, _ ThresholdOutput, retErr error) {
	if err := ratelimit.CheckLimit(s.limiters, "leach_threshold", s.now()); err != nil {
		return nil, ThresholdOutput{}, err
	}
	if args.Rounds <= 0 || args.Rounds > s.maxCells {
		return nil, ThresholdOutput{}, fmt.Errorf("rounds must be between 1 and %d, got %d", s.maxCells, args.Rounds)
	}

	out := ThresholdOutput{
		Thresholds: make([]float64, args.Rounds),
	}
	for r := range args.Rounds {
		theta, err := leach.Threshold(args.Probability, r)
		if err != nil {
			return nil, ThresholdOutput{}, err
		}
		out.Thresholds[r] = theta
	}
	out.Period = leach.Period(args.Probability)
	return nil, out, nil
}
