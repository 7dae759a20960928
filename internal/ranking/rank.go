package ranking

import "sort"

// Rank assigns 1-based ranks with "min" tie semantics: alternatives with
// equal scores share the smallest rank of their group and the next distinct
// score skips accordingly (1, 1, 3). Ranks are returned in input order.
func Rank(scores []float64) []int {
	ranks := make([]int, len(scores))
	for i, s := range scores {
		r := 1
		for _, other := range scores {
			if other > s {
				r++
			}
		}
		ranks[i] = r
	}
	return ranks
}

// Order returns row indices sorted by score, highest first. Equal scores
// keep their input order.
func Order(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	return idx
}
