package lib

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NewColumnMajor wraps a flat buffer laid out column after column, so that
// element (k, i) lives at data[k+i*rows]. This is the layout statistical hosts
// hand over. The buffer is not copied and must not change during a computation.
func NewColumnMajor(rows int, cols int, data []float64) (mat.Matrix, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: cannot build a %dx%d matrix", ErrDimensionMismatch, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrDimensionMismatch, len(data), rows, cols)
	}
	// Row i of this matrix is column i of the host matrix.
	return mat.NewDense(cols, rows, data).T(), nil
}

// ColumnMajorData flattens m column after column, the inverse of NewColumnMajor.
func ColumnMajorData(m mat.Matrix) []float64 {
	r, c := m.Dims()
	ret := make([]float64, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			ret[i+j*r] = m.At(i, j)
		}
	}
	return ret
}
