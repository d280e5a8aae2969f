package lib

import (
	"errors"
	"math"
	"testing"
)

func TestNewColumnMajor(t *testing.T) {
	// Two columns of three rows each: [1 2 3] and [4 5 6].
	data := []float64{1, 2, 3, 4, 5, 6}
	m, err := NewColumnMajor(3, 2, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, c := m.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("expected a 3x2 matrix but got %dx%d", r, c)
	}
	if m.At(0, 1) != 4 || m.At(2, 0) != 3 || m.At(1, 1) != 5 {
		t.Errorf("column-major layout was not respected")
	}
	roundTrip := ColumnMajorData(m)
	for i, v := range data {
		if roundTrip[i] != v {
			t.Errorf("round trip mismatch at %d: %f vs %f", i, roundTrip[i], v)
		}
	}
}

func TestNewColumnMajorErrors(t *testing.T) {
	if _, err := NewColumnMajor(2, 2, []float64{1, 2, 3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for short data but got %v", err)
	}
	if _, err := NewColumnMajor(0, 2, nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for zero rows but got %v", err)
	}
}

// The layout a statistical host uses: inputs column-major, result stored at i+j*p.
func TestWeightedCorColumnMajorHost(t *testing.T) {
	x, err := NewColumnMajor(4, 2, []float64{
		1, 2, 3, 4,
		4, 3, 2, math.NaN(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	y, err := NewColumnMajor(4, 1, []float64{2, 4, 6, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := WeightedCor(x, y, []float64{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := ColumnMajorData(r)
	if len(out) != 2 {
		t.Fatalf("expected 2 values but got %d", len(out))
	}
	if math.Abs(out[0]-1.0) > 1e-12 || math.Abs(out[1]+1.0) > 1e-12 {
		t.Errorf("expected [1 -1] but got %v", out)
	}
}
