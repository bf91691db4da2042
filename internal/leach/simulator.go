// Package leach implements the clusterhead election of the LEACH protocol
// as a round-by-round state evolution over a fixed node population.
//
// A Simulator owns a rounds × nodes grid of NodeRoundState. Each round reads
// the previous round's committed cooldown counters, computes the admission
// threshold
//
//	θ(r) = p / (1 − p·((r+1) mod ⌊1/p⌋))
//
// and elects the nodes whose draw does not exceed it, subject to the
// re-election cooldown. Rounds are strictly sequential; nodes within a round
// are independent and may be processed in parallel.
package leach

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

// Config holds the parameters of a single simulation run.
type Config struct {
	// Nodes is the number of nodes in the network. Must be positive.
	Nodes int

	// Rounds is the number of rounds to simulate. Must be positive.
	Rounds int

	// Probability is the desired clusterhead fraction p, strictly inside (0,1).
	// The cooldown period is ⌊1/p⌋ (truncated): any p above 0.5 yields a
	// period of 1, and very small p yields very long periods.
	Probability float64

	// Workers bounds the goroutines used for the per-node transitions of a
	// round. Values below 2 process nodes serially.
	Workers int

	// Logger receives round summaries at debug level. Nil disables logging.
	Logger *slog.Logger
}

// Period returns ⌊1/p⌋, truncating toward zero.
func Period(p float64) int {
	return int(1 / p)
}

func (c Config) validate() error {
	if c.Nodes <= 0 {
		return fmt.Errorf("%w: node count must be positive, got %d", ErrInvalidConfiguration, c.Nodes)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("%w: round count must be positive, got %d", ErrInvalidConfiguration, c.Rounds)
	}
	if math.IsNaN(c.Probability) || c.Probability <= 0 || c.Probability >= 1 {
		return fmt.Errorf("%w: probability must be strictly between 0 and 1, got %v", ErrInvalidConfiguration, c.Probability)
	}
	if 1/c.Probability >= float64(math.MaxInt) {
		return fmt.Errorf("%w: probability %v gives a cooldown period beyond int range", ErrInvalidConfiguration, c.Probability)
	}
	if c.Nodes > math.MaxInt/c.Rounds {
		return fmt.Errorf("%w: %d nodes × %d rounds overflows", ErrInvalidConfiguration, c.Nodes, c.Rounds)
	}
	return nil
}

// Simulator advances the node/round grid. It is not safe for concurrent use;
// the only internal concurrency is the per-node fan-out inside RunRound.
type Simulator struct {
	cfg        Config
	period     int
	log        *slog.Logger
	grid       grid
	thresholds []float64

	initialized bool
	committed   int // rounds fully computed
}

// New validates cfg and allocates the state grid. On error nothing is allocated.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Simulator{
		cfg:        cfg,
		period:     Period(cfg.Probability),
		log:        logger,
		grid:       newGrid(cfg.Nodes, cfg.Rounds),
		thresholds: make([]float64, cfg.Rounds),
	}, nil
}

// Period reports the cooldown period ⌊1/p⌋ of this simulator.
func (s *Simulator) Period() int { return s.period }

// Config returns the configuration the simulator was built with.
func (s *Simulator) Config() Config { return s.cfg }

// Committed reports how many rounds have been computed.
func (s *Simulator) Committed() int { return s.committed }

// Initialize draws a value for every (round, node) cell from src and resets
// all counters and flags. A nil src uses the process-wide generator.
// It must be called exactly once, before any round runs.
func (s *Simulator) Initialize(src Source) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if src == nil {
		src = globalSource{}
	}

	for i := range s.grid.cells {
		d := src.Float64()
		if math.IsNaN(d) || d < 0 || d >= 1 {
			return fmt.Errorf("%w: cell %d got %v", ErrInvalidDraw, i, d)
		}
		s.grid.cells[i] = NodeRoundState{Draw: d}
	}

	s.initialized = true
	return nil
}

// ComputeThreshold returns θ for the zero-based round. The result depends
// only on the round and the configured probability.
func (s *Simulator) ComputeThreshold(round int) (float64, error) {
	if round < 0 || round >= s.cfg.Rounds {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrRoundOutOfRange, round, s.cfg.Rounds)
	}
	return Threshold(s.cfg.Probability, round)
}

// Threshold evaluates θ(r) = p / (1 − p·((r+1) mod ⌊1/p⌋)) without a simulator.
// A zero or negative denominator, or a non-finite result, yields a
// *ThresholdError.
func Threshold(p float64, round int) (float64, error) {
	if err := (Config{Nodes: 1, Rounds: 1, Probability: p}).validate(); err != nil {
		return 0, err
	}
	if round < 0 {
		return 0, fmt.Errorf("%w: %d", ErrRoundOutOfRange, round)
	}

	period := Period(p)
	if period <= 0 {
		return 0, &ThresholdError{Round: round, Probability: p}
	}

	denom := 1 - p*float64((round+1)%period)
	if denom <= 0 {
		return 0, &ThresholdError{Round: round, Probability: p, Denominator: denom}
	}

	theta := p / denom
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0, &ThresholdError{Round: round, Probability: p, Denominator: denom}
	}
	return theta, nil
}

// RunRound applies the election rule to every node for the given round.
// Rounds must be run in increasing order starting at zero. If the threshold
// cannot be computed the round is left uncommitted and the error is returned.
func (s *Simulator) RunRound(round int) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if round < 0 || round >= s.cfg.Rounds {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrRoundOutOfRange, round, s.cfg.Rounds)
	}
	if round != s.committed {
		return fmt.Errorf("%w: got round %d, next is %d", ErrRoundOutOfOrder, round, s.committed)
	}

	theta, err := s.ComputeThreshold(round)
	if err != nil {
		return err
	}

	cur := s.grid.snapshot(round)
	prev := cur
	if round > 0 {
		prev = s.grid.snapshot(round - 1)
	}

	if err := s.transitionAll(prev, cur, theta); err != nil {
		return err
	}

	s.thresholds[round] = theta
	s.committed++

	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		var elected, eligible int
		for _, st := range cur {
			if st.Clusterhead {
				elected++
			}
			if st.Eligible {
				eligible++
			}
		}
		s.log.Debug("round committed",
			"round", round+1,
			"theta", theta,
			"eligible", eligible,
			"clusterheads", elected)
	}
	return nil
}

// transitionAll runs the per-node rule over a round, fanning out across
// workers when configured. Each worker owns a disjoint node range.
func (s *Simulator) transitionAll(prev, cur []NodeRoundState, theta float64) error {
	workers := s.cfg.Workers
	if workers < 2 || len(cur) < 2 {
		for n := range cur {
			transition(prev[n].Cooldown, &cur[n], theta, s.period)
		}
		return nil
	}

	chunk := (len(cur) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(cur); lo += chunk {
		hi := min(lo+chunk, len(cur))
		g.Go(func() error {
			for n := lo; n < hi; n++ {
				transition(prev[n].Cooldown, &cur[n], theta, s.period)
			}
			return nil
		})
	}
	return g.Wait()
}

// transition moves one node from its previous cooldown to the current round.
func transition(prevCooldown int, cur *NodeRoundState, theta float64, period int) {
	cur.Cooldown = prevCooldown

	// Mid-cooldown nodes cannot be candidates this round.
	if cur.Cooldown > 0 && cur.Cooldown < period {
		theta = 0
	}

	cur.Eligible = cur.Draw <= theta
	if cur.Eligible {
		if cur.Cooldown == 0 || cur.Cooldown > period {
			cur.Cooldown = 1
			cur.Clusterhead = true
		} else {
			// Eligible but still inside the window: count, do not elect.
			cur.Cooldown++
		}
		return
	}

	if cur.Cooldown > 0 {
		cur.Cooldown++
	}
}

// RunAll runs every remaining round in order. ctx is checked between rounds.
func (s *Simulator) RunAll(ctx context.Context) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	for r := s.committed; r < s.cfg.Rounds; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RunRound(r); err != nil {
			return fmt.Errorf("round %d: %w", r+1, err)
		}
	}
	return nil
}

// History returns the completed grid. It fails with ErrNotYetSimulated until
// every round has been committed.
func (s *Simulator) History() (*History, error) {
	if !s.initialized || s.committed < s.cfg.Rounds {
		return nil, fmt.Errorf("%w: %d of %d rounds committed", ErrNotYetSimulated, s.committed, s.cfg.Rounds)
	}
	return &History{
		g:          s.grid,
		p:          s.cfg.Probability,
		period:     s.period,
		thresholds: s.thresholds,
	}, nil
}

// Simulate is a convenience that builds, initializes and runs a simulator.
func Simulate(ctx context.Context, cfg Config, src Source) (*History, error) {
	sim, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := sim.Initialize(src); err != nil {
		return nil, err
	}
	if err := sim.RunAll(ctx); err != nil {
		return nil, err
	}
	return sim.History()
}
