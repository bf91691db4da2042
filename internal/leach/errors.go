package leach

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the simulator. Callers should match them with
// errors.Is; most are wrapped with additional context.
var (
	// ErrInvalidConfiguration is returned by New when the node count, round
	// count or admission probability cannot drive a simulation.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrArithmeticAnomaly is returned when the threshold formula would
	// divide by zero or produce a non-finite value.
	ErrArithmeticAnomaly = errors.New("arithmetic anomaly in threshold")

	// ErrNotYetSimulated is returned by History before every round is committed.
	ErrNotYetSimulated = errors.New("history requested before simulation completed")

	ErrNotInitialized     = errors.New("simulator not initialized")
	ErrAlreadyInitialized = errors.New("simulator already initialized")
	ErrInvalidDraw        = errors.New("random draw outside [0,1)")
	ErrRoundOutOfRange    = errors.New("round out of range")
	ErrRoundOutOfOrder    = errors.New("round out of order")
)

// ThresholdError describes a round whose admission threshold could not be
// computed. It wraps ErrArithmeticAnomaly.
type ThresholdError struct {
	Round       int
	Probability float64
	Denominator float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("round %d: threshold denominator %g for p=%g", e.Round, e.Denominator, e.Probability)
}

func (e *ThresholdError) Unwrap() error {
	return ErrArithmeticAnomaly
}
