package comparisons

import (
	"errors"
	"math"
	"testing"

	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/settings"
)

func testColumns() *datatypes.ColumnSet {
	return &datatypes.ColumnSet{
		XColumns: [][]float64{
			{1, 2, 3},
			{2, 4, 6},
			{3, 2, 1},
			{5, 5, 5},
		},
		YColumns: [][]float64{
			{1, 2, 3},
			{0.5, 0.1, 0.9},
		},
		Weights: []float64{1, 1, 1},
	}
}

func TestCompare(t *testing.T) {
	bc, err := NewBaseComparer(settings.CorrelationSettings{Algorithm: settings.ALGO_TWO_PASS}, testColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[datatypes.ColumnPair]float64{
		{X: 0, Y: 0}: 1.0,
		{X: 1, Y: 0}: 1.0,
		{X: 2, Y: 0}: -1.0,
	}
	for pair, corr := range expected {
		res := bc.Compare(pair)
		if res.Err != nil {
			t.Errorf("unexpected error: %v", res.Err)
			continue
		}
		if math.Abs(res.Correlation-corr) > 1e-12 {
			t.Errorf("expected correlation %f for %+v but got %f", corr, pair, res.Correlation)
		}
		if res.Pair != pair {
			t.Errorf("result carries pair %+v, expected %+v", res.Pair, pair)
		}
		if res.Npair != 3.0 {
			t.Errorf("expected npair 3 but got %f", res.Npair)
		}
	}

	res := bc.Compare(datatypes.ColumnPair{X: 3, Y: 0})
	if res.Err != nil {
		t.Errorf("unexpected error: %v", res.Err)
	}
	if !math.IsNaN(res.Correlation) {
		t.Errorf("expected NaN for a constant column but got %f", res.Correlation)
	}

	res = bc.Compare(datatypes.ColumnPair{X: 4, Y: 0})
	if res.Err == nil {
		t.Errorf("expected error for a pair outside the result matrix")
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewBaseComparer(settings.CorrelationSettings{Algorithm: "full_pearson"}, testColumns())
	if !errors.Is(err, settings.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm but got %v", err)
	}
}

func TestIsDegenerate(t *testing.T) {
	if !IsDegenerate(math.NaN()) || !IsDegenerate(math.Inf(1)) || !IsDegenerate(math.Inf(-1)) {
		t.Errorf("NaN and Inf must be degenerate")
	}
	if IsDegenerate(0.0) || IsDegenerate(-1.0) {
		t.Errorf("finite values must not be degenerate")
	}
}
