package ranking

import "github.com/MikeSquared-Agency/Topsis/internal/topsis"

// Frontier reports, per row, whether no other row dominates it. Row a
// dominates row b when a is at least as good on every criterion and strictly
// better on one, where "good" follows each criterion's direction.
// The check is O(n²·m), fine for catalog-sized inputs.
func Frontier(rows [][]float64, directions []topsis.Direction) []bool {
	out := make([]bool, len(rows))
	for i := range rows {
		out[i] = true
		for j := range rows {
			if i != j && dominates(rows[j], rows[i], directions) {
				out[i] = false
				break
			}
		}
	}
	return out
}

func dominates(a, b []float64, directions []topsis.Direction) bool {
	strictly := false
	for k, d := range directions {
		better, worse := a[k] > b[k], a[k] < b[k]
		if d == topsis.Cost {
			better, worse = worse, better
		}
		if worse {
			return false
		}
		if better {
			strictly = true
		}
	}
	return strictly
}
