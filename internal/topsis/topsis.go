// Package topsis ranks alternatives against weighted benefit and cost
// criteria by their relative closeness to an ideal solution.
//
// The computation is a pure five-stage pipeline: vector normalization,
// weighting, ideal solutions, Euclidean distances, preference scores.
// Every call allocates its own intermediates, so an Engine can be shared
// by any number of goroutines.
package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon replaces a zero score denominator. It only guards against
// division by zero and carries no meaning of its own.
const DefaultEpsilon = 1e-6

// Result holds the scores of a run together with every intermediate value.
// Scores[i] belongs to row i of the input matrix.
type Result struct {
	Scores        []float64
	Normalized    *mat.Dense
	Weighted      *mat.Dense
	IdealPositive []float64
	IdealNegative []float64
	DistPositive  []float64
	DistNegative  []float64

	// ZeroColumns lists criteria whose column was all zeros and was left unscaled.
	ZeroColumns []int
	// DegenerateRows lists alternatives whose score used the epsilon denominator.
	DegenerateRows []int
}

// Approximate reports whether any degenerate-input substitution was applied.
func (r *Result) Approximate() bool {
	return len(r.ZeroColumns) > 0 || len(r.DegenerateRows) > 0
}

// Engine runs TOPSIS with a configurable zero-denominator epsilon.
// The zero value uses DefaultEpsilon.
type Engine struct {
	Epsilon float64
}

// NewEngine returns an Engine using epsilon, or DefaultEpsilon when epsilon <= 0.
func NewEngine(epsilon float64) *Engine {
	return &Engine{Epsilon: epsilon}
}

func (e *Engine) epsilon() float64 {
	if e == nil || e.Epsilon <= 0 || math.IsNaN(e.Epsilon) || math.IsInf(e.Epsilon, 0) {
		return DefaultEpsilon
	}
	return e.Epsilon
}

// Run scores every row of x. weights and directions must have one entry per
// column. Weights are used as given: they need not sum to one, and zero or
// negative weights are accepted even though they blur the ranking.
func (e *Engine) Run(x mat.Matrix, weights []float64, directions []Direction) (*Result, error) {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmptyMatrix
	}
	if len(weights) != c || len(directions) != c {
		return nil, fmt.Errorf("%w: %d columns, %d weights, %d directions",
			ErrShapeMismatch, c, len(weights), len(directions))
	}
	for j, d := range directions {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: %q for criterion %d", ErrUnknownDirection, d, j)
		}
	}
	for j, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight for criterion %d", ErrNonFinite, j)
		}
	}
	if err := checkFinite(x); err != nil {
		return nil, err
	}

	normalized, zeroCols := Normalize(x)
	weighted := ApplyWeights(normalized, weights)
	positive, negative := IdealSolutions(weighted, directions)
	toPositive, toNegative := Distances(weighted, positive, negative)
	scores, degenerate := PreferenceScores(toPositive, toNegative, e.epsilon())

	return &Result{
		Scores:         scores,
		Normalized:     normalized,
		Weighted:       weighted,
		IdealPositive:  positive,
		IdealNegative:  negative,
		DistPositive:   toPositive,
		DistNegative:   toNegative,
		ZeroColumns:    zeroCols,
		DegenerateRows: degenerate,
	}, nil
}

var defaultEngine = &Engine{}

// Run scores x with DefaultEpsilon.
func Run(x mat.Matrix, weights []float64, directions []Direction) (*Result, error) {
	return defaultEngine.Run(x, weights, directions)
}
