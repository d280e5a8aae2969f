package comparisons

import (
	"fmt"
	"math"

	"github.com/kpaschen/weightedcor/lib/correlation"
	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/settings"
)

type kernel func(x []float64, y []float64, w []float64) (float64, float64, error)

func kernelFor(algorithm string) (kernel, error) {
	switch algorithm {
	case settings.ALGO_TWO_PASS:
		return correlation.WeightedPearson, nil
	case settings.ALGO_WELFORD:
		return correlation.WeightedPearsonWelford, nil
	default:
		return nil, fmt.Errorf("%w: %q", settings.ErrUnknownAlgorithm, algorithm)
	}
}

// A BaseComparer evaluates single cells against a fixed set of columns.
// It holds no mutable state, so one BaseComparer can be shared by any
// number of goroutines.
type BaseComparer struct {
	columns *datatypes.ColumnSet
	compute kernel
}

func NewBaseComparer(config settings.CorrelationSettings, columns *datatypes.ColumnSet) (*BaseComparer, error) {
	k, err := kernelFor(config.Algorithm)
	if err != nil {
		return nil, err
	}
	return &BaseComparer{columns: columns, compute: k}, nil
}

func IsDegenerate(value float64) bool {
	return math.IsNaN(value) || math.IsInf(value, 0)
}

func (b *BaseComparer) Compare(pair datatypes.ColumnPair) *datatypes.CellResult {
	res := &datatypes.CellResult{Pair: pair}
	p, q := b.columns.Dims()
	if pair.X < 0 || pair.X >= p || pair.Y < 0 || pair.Y >= q {
		res.Err = fmt.Errorf("column pair %+v is outside of the %dx%d result", pair, p, q)
		return res
	}
	res.Correlation, res.Npair, res.Err = b.compute(
		b.columns.XColumns[pair.X], b.columns.YColumns[pair.Y], b.columns.Weights)
	return res
}
