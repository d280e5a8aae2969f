package lib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/kpaschen/weightedcor/lib/comparisons"
	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/metrics"
	"github.com/kpaschen/weightedcor/lib/settings"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when the inputs of a computation do not fit
// together. No computation happens and no result is returned.
var ErrDimensionMismatch = errors.New("dimension mismatch")

type CorrelationResult struct {
	// Correlations has one row per column of the first input and one column
	// per column of the second input.
	Correlations *mat.Dense

	// Cells that came out as NaN or Inf, sorted by column pair.
	DegenerateCells []datatypes.ColumnPair

	Duration time.Duration
}

// A Correlator computes weighted pearson correlation matrices.
// It keeps no state between calls and can be used from several goroutines.
type Correlator struct {
	settings settings.CorrelationSettings
}

func NewCorrelator(config settings.CorrelationSettings) (*Correlator, error) {
	config = config.ComputeSettingsFields()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Correlator{settings: config}, nil
}

func (c *Correlator) Settings() settings.CorrelationSettings {
	return c.settings
}

// WeightedCor computes the weighted correlation of every column of x with every
// column of y, sequentially and with the two-pass algorithm.
func WeightedCor(x mat.Matrix, y mat.Matrix, w []float64) (*mat.Dense, error) {
	c, err := NewCorrelator(settings.CorrelationSettings{Algorithm: settings.ALGO_TWO_PASS, Workers: 1})
	if err != nil {
		return nil, err
	}
	res, err := c.Compute(context.Background(), x, y, w)
	if err != nil {
		return nil, err
	}
	return res.Correlations, nil
}

func isNilMatrix(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	switch v := m.(type) {
	case *mat.Dense:
		return v == nil
	case *mat.VecDense:
		return v == nil
	}
	return false
}

func validateInputs(x mat.Matrix, y mat.Matrix, w []float64) error {
	if isNilMatrix(x) || isNilMatrix(y) {
		return fmt.Errorf("%w: missing input matrix", ErrDimensionMismatch)
	}
	n, p := x.Dims()
	ny, q := y.Dims()
	if n < 1 || p < 1 || q < 1 {
		return fmt.Errorf("%w: empty input (%dx%d and %dx%d)", ErrDimensionMismatch, n, p, ny, q)
	}
	if n != ny {
		return fmt.Errorf("%w: first input has %d rows but second input has %d", ErrDimensionMismatch, n, ny)
	}
	if len(w) != n {
		return fmt.Errorf("%w: %d weights for %d rows", ErrDimensionMismatch, len(w), n)
	}
	return nil
}

func extractColumns(x mat.Matrix, y mat.Matrix, w []float64) *datatypes.ColumnSet {
	_, p := x.Dims()
	_, q := y.Dims()
	ret := &datatypes.ColumnSet{
		XColumns: make([][]float64, p),
		YColumns: make([][]float64, q),
		Weights:  w,
	}
	for i := 0; i < p; i++ {
		ret.XColumns[i] = mat.Col(nil, i, x)
	}
	for j := 0; j < q; j++ {
		ret.YColumns[j] = mat.Col(nil, j, y)
	}
	return ret
}

type collectorOutcome struct {
	degenerate []datatypes.ColumnPair
	err        error
}

func (c *Correlator) collect(results <-chan *datatypes.CellResult, out *mat.Dense, outcome chan<- collectorOutcome) {
	ret := collectorOutcome{degenerate: make([]datatypes.ColumnPair, 0)}
	for res := range results {
		if res.Err != nil {
			if ret.err == nil {
				ret.err = res.Err
			}
			continue
		}
		out.Set(res.Pair.X, res.Pair.Y, res.Correlation)
		if comparisons.IsDegenerate(res.Correlation) {
			ret.degenerate = append(ret.degenerate, res.Pair)
			if c.settings.LogDegenerateCells {
				log.Printf("cell %+v is degenerate: correlation %f, npair %f\n", res.Pair, res.Correlation, res.Npair)
			}
		}
	}
	outcome <- ret
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrDimensionMismatch):
		return metrics.ReasonDimensionMismatch
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonCanceled
	case errors.Is(err, settings.ErrUnknownAlgorithm):
		return metrics.ReasonSettings
	default:
		return metrics.ReasonCell
	}
}

// Compute returns the weighted correlation matrix of the columns of x against
// the columns of y. Row k carries weight w[k]; a row is used for a pair of
// columns only if neither of the two values is NaN.
// The context is checked between cells. A cancelled computation returns the
// context error and no result.
func (c *Correlator) Compute(ctx context.Context, x mat.Matrix, y mat.Matrix, w []float64) (*CorrelationResult, error) {
	res, err := c.compute(ctx, x, y, w)
	if err != nil {
		metrics.FailedComputations.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	p, q := res.Correlations.Dims()
	metrics.Computations.Inc()
	metrics.Cells.Add(float64(p * q))
	metrics.DegenerateCells.Add(float64(len(res.DegenerateCells)))
	metrics.LastMatrixCells.Set(float64(p * q))
	metrics.ComputationDurationHist.Observe(float64(res.Duration.Microseconds()) / 1000.0)
	return res, nil
}

func (c *Correlator) compute(ctx context.Context, x mat.Matrix, y mat.Matrix, w []float64) (*CorrelationResult, error) {
	start := time.Now()
	if err := validateInputs(x, y, w); err != nil {
		return nil, err
	}
	if floats.HasNaN(w) {
		log.Printf("weight vector contains NaN, results for affected cells are undefined\n")
	}

	columns := extractColumns(x, y, w)
	p, q := columns.Dims()
	log.Printf("computing %dx%d weighted correlation matrix over %d rows using %s with %d workers\n",
		p, q, len(w), c.settings.Algorithm, c.settings.Workers)

	results := make(chan *datatypes.CellResult, c.settings.ResultBufferSize)
	engine := comparisons.NewEngine(c.settings)
	if err := engine.Initialize(c.settings, columns, results); err != nil {
		return nil, err
	}

	out := mat.NewDense(p, q, nil)
	outcome := make(chan collectorOutcome, 1)
	go c.collect(results, out, outcome)

	var err error
dispatch:
	for i := 0; i < p; i++ {
		for j := 0; j < q; j++ {
			if err = ctx.Err(); err != nil {
				break dispatch
			}
			if err = engine.Compare(datatypes.ColumnPair{X: i, Y: j}); err != nil {
				break dispatch
			}
		}
	}
	if shutdownErr := engine.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	close(results)
	collected := <-outcome
	if err == nil {
		err = collected.err
	}
	if err != nil {
		log.Printf("abandoning %dx%d correlation matrix: %v\n", p, q, err)
		return nil, err
	}

	slices.SortFunc(collected.degenerate, func(a, b datatypes.ColumnPair) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})
	elapsed := time.Since(start)
	log.Printf("correlation matrix done in %d milliseconds, %d of %d cells degenerate\n",
		elapsed.Milliseconds(), len(collected.degenerate), p*q)

	return &CorrelationResult{
		Correlations:    out,
		DegenerateCells: collected.degenerate,
		Duration:        elapsed,
	}, nil
}
