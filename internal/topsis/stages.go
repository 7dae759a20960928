package topsis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize divides every column by its Euclidean norm:
//
//	r_ij = x_ij / √(Σ_i x_ij²)
//
// A column whose norm is zero is divided by 1 instead and stays all zeros.
// The indexes of such columns are returned alongside the new matrix.
func Normalize(x mat.Matrix) (*mat.Dense, []int) {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	var zero []int
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		norm := floats.Norm(col, 2)
		if norm == 0 {
			norm = 1
			zero = append(zero, j)
		}
		floats.Scale(1/norm, col)
		out.SetCol(j, col)
	}
	return out, zero
}

// ApplyWeights multiplies column j of the normalized matrix by weights[j].
func ApplyWeights(normalized mat.Matrix, weights []float64) *mat.Dense {
	r, c := normalized.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return v * weights[j]
	}, normalized)
	return out
}

// IdealSolutions picks, per column of the weighted matrix, the most and the
// least preferred achievable value. For benefit criteria that is (max, min),
// for cost criteria (min, max).
func IdealSolutions(weighted mat.Matrix, directions []Direction) (positive, negative []float64) {
	r, c := weighted.Dims()
	positive = make([]float64, c)
	negative = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, weighted)
		hi, lo := floats.Max(col), floats.Min(col)
		if directions[j] == Cost {
			hi, lo = lo, hi
		}
		positive[j], negative[j] = hi, lo
	}
	return positive, negative
}

// Distances returns the Euclidean distance of every row of the weighted
// matrix to the ideal positive and the ideal negative vectors.
func Distances(weighted mat.Matrix, positive, negative []float64) (toPositive, toNegative []float64) {
	r, c := weighted.Dims()
	toPositive = make([]float64, r)
	toNegative = make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, weighted)
		toPositive[i] = floats.Distance(row, positive, 2)
		toNegative[i] = floats.Distance(row, negative, 2)
	}
	return toPositive, toNegative
}

// PreferenceScores computes the relative closeness d⁻ / (d⁺ + d⁻) of every
// alternative. A zero denominator is replaced by epsilon; the rows where that
// happened are returned so callers can flag the score as an approximation.
func PreferenceScores(toPositive, toNegative []float64, epsilon float64) ([]float64, []int) {
	scores := make([]float64, len(toPositive))
	var degenerate []int
	for i := range toPositive {
		denom := toPositive[i] + toNegative[i]
		if denom == 0 {
			denom = epsilon
			degenerate = append(degenerate, i)
		}
		scores[i] = toNegative[i] / denom
	}
	return scores, degenerate
}
