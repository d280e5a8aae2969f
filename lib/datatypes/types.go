package datatypes

import (
	"encoding/json"
)

// ColumnPair identifies one output cell: column X of the first matrix
// against column Y of the second.
// The fields are public because this struct gets
// json-encoded.
type ColumnPair struct {
	X int
	Y int
}

func (c ColumnPair) ColumnIds() [2]int {
	return [2]int{c.X, c.Y}
}

func NewColumnPair(x int, y int) *ColumnPair {
	return &ColumnPair{X: x, Y: y}
}

func (c *ColumnPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		X int `json:"x"`
		Y int `json:"y"`
	}{
		X: c.X,
		Y: c.Y,
	})
}

func (c *ColumnPair) UnmarshalJSON(data []byte) error {
	cp := &struct {
		X int `json:"x"`
		Y int `json:"y"`
	}{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	c.X = cp.X
	c.Y = cp.Y
	return nil
}

// CellResult is the outcome of one column pair.
type CellResult struct {
	Pair        ColumnPair
	Correlation float64
	// Sum of the weights of the rows used for this pair.
	Npair float64
	Err   error
}

// ColumnSet holds the inputs of one computation split into columns.
// Nothing in here is modified once a computation has started.
type ColumnSet struct {
	// XColumns[i] is column i of the first matrix.
	XColumns [][]float64
	// YColumns[j] is column j of the second matrix.
	YColumns [][]float64
	Weights  []float64
}

func (c *ColumnSet) Dims() (int, int) {
	return len(c.XColumns), len(c.YColumns)
}
