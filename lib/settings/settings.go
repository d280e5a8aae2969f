// Package settings contains all the parameters for the weighted correlation engine.
package settings

import (
	"errors"
	"fmt"
	"runtime"
)

const (
	// The reference two-pass algorithm: weighted means first, then centered
	// sums of squares in expanded form.
	ALGO_TWO_PASS = "two_pass"
	// Single-pass weighted Welford/West accumulator.
	ALGO_WELFORD = "welford"
)

var ErrUnknownAlgorithm = errors.New("unknown correlation algorithm")

type CorrelationSettings struct {
	// Which per-cell kernel to use.
	Algorithm string

	// The number of goroutines evaluating cells.
	// 1 evaluates cells in process on the calling goroutine.
	// Zero or negative means one worker per GOMAXPROCS.
	Workers int

	// Capacity of the channel that carries cell results to the collector.
	ResultBufferSize int

	// Log every cell that comes out as NaN or Inf.
	LogDegenerateCells bool
}

func (s CorrelationSettings) ComputeSettingsFields() CorrelationSettings {
	if s.Algorithm == "" {
		s.Algorithm = ALGO_TWO_PASS
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	if s.ResultBufferSize <= 0 {
		s.ResultBufferSize = 2 * s.Workers
	}
	return s
}

func (s CorrelationSettings) Validate() error {
	switch s.Algorithm {
	case ALGO_TWO_PASS, ALGO_WELFORD:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s.Algorithm)
	}
}
