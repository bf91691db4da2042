// Package runner wires a single simulation run: seed selection, run identity,
// the simulator itself and the summary handed to reporting.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/nvandessel/leach/internal/leach"
	"github.com/nvandessel/leach/internal/report"
)

// Params describes one run.
type Params struct {
	Nodes       int
	Rounds      int
	Probability float64
	Seed        uint64 // 0 picks a random seed
	Workers     int

	// Source overrides the seeded generator. Seed is still recorded.
	Source leach.Source
}

// Result is a finished run.
type Result struct {
	RunID   string
	Seed    uint64
	History *leach.History
	Summary report.Summary
	Elapsed time.Duration
}

// Runner executes runs. The zero value is not usable; call New.
type Runner struct {
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// New creates a Runner logging to logger. A nil logger discards output.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		log:   logger,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Run builds a simulator from p, runs every round and summarises the result.
func (r *Runner) Run(ctx context.Context, p Params) (*Result, error) {
	seed := p.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}

	src := p.Source
	if src == nil {
		src = leach.NewSource(seed)
	}

	runID := r.newID()
	log := r.log.With("run_id", runID)
	start := r.now()

	log.Info("starting simulation",
		"nodes", p.Nodes,
		"rounds", p.Rounds,
		"probability", p.Probability,
		"seed", seed)

	h, err := leach.Simulate(ctx, leach.Config{
		Nodes:       p.Nodes,
		Rounds:      p.Rounds,
		Probability: p.Probability,
		Workers:     p.Workers,
		Logger:      log,
	}, src)
	if err != nil {
		return nil, fmt.Errorf("simulating: %w", err)
	}

	summary := report.Summarize(h, report.Meta{RunID: runID, Seed: seed, CreatedAt: start})
	elapsed := r.now().Sub(start)

	elections := 0
	for _, rs := range summary.History {
		elections += rs.ClusterheadCount()
	}
	log.Info("simulation finished",
		"period", h.Period(),
		"elections", elections,
		"elapsed", elapsed)

	return &Result{
		RunID:   runID,
		Seed:    seed,
		History: h,
		Summary: summary,
		Elapsed: elapsed,
	}, nil
}
