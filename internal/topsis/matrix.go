package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NewMatrix builds a decision matrix from rows of raw criterion values.
// Every row is one alternative and must have the same number of columns.
// Values must be finite.
func NewMatrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	n := len(rows[0])
	data := make([]float64, 0, len(rows)*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrRaggedMatrix, i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d column %d", ErrNonFinite, i, j)
			}
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), n, data), nil
}

// Rows copies a matrix into a slice of rows, e.g. for JSON output.
func Rows(m mat.Matrix) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

func checkFinite(m mat.Matrix) error {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d column %d", ErrNonFinite, i, j)
			}
		}
	}
	return nil
}
