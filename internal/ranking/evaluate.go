package ranking

import (
	"fmt"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// Evaluation is the raw engine output for a caller-supplied matrix. Slices
// are indexed like the input rows.
type Evaluation struct {
	Scores         []float64   `json:"scores"`
	Ranks          []int       `json:"ranks"`
	Normalized     [][]float64 `json:"normalized"`
	Weighted       [][]float64 `json:"weighted"`
	IdealPositive  []float64   `json:"ideal_positive"`
	IdealNegative  []float64   `json:"ideal_negative"`
	DistPositive   []float64   `json:"distance_positive"`
	DistNegative   []float64   `json:"distance_negative"`
	ZeroColumns    []int       `json:"zero_columns,omitempty"`
	DegenerateRows []int       `json:"degenerate_rows,omitempty"`
	Approximate    bool        `json:"approximate"`
}

// Evaluate runs engine over rows without any dataset or criteria lookup.
// Directions are parsed from their labels. Every failure is a configuration
// error in the sense of topsis.IsConfigError.
func Evaluate(engine *topsis.Engine, rows [][]float64, weights []float64, directions []string) (*Evaluation, error) {
	dirs := make([]topsis.Direction, len(directions))
	for j, label := range directions {
		d, err := topsis.ParseDirection(label)
		if err != nil {
			return nil, fmt.Errorf("criterion %d: %w", j, err)
		}
		dirs[j] = d
	}
	x, err := topsis.NewMatrix(rows)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run(x, weights, dirs)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Scores:         res.Scores,
		Ranks:          Rank(res.Scores),
		Normalized:     topsis.Rows(res.Normalized),
		Weighted:       topsis.Rows(res.Weighted),
		IdealPositive:  res.IdealPositive,
		IdealNegative:  res.IdealNegative,
		DistPositive:   res.DistPositive,
		DistNegative:   res.DistNegative,
		ZeroColumns:    res.ZeroColumns,
		DegenerateRows: res.DegenerateRows,
		Approximate:    res.Approximate(),
	}, nil
}
