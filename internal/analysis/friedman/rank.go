package friedman

import (
	"sort"

	"gofriedman/domain/friedman"
)

// Rank converts each block of the measurement matrix into competition ranks.
// Ties take the maximum rank of their group: every tied score receives the
// number of scores ranked at or above it, ties included. With Descending,
// [5, 7, 7] ranks as [3, 2, 2].
func Rank(m *friedman.MeasurementMatrix, direction friedman.Direction) *friedman.RankMatrix {
	ranks := make([][]int, m.Blocks())
	for b := range ranks {
		ranks[b] = rankBlock(m.Block(b), direction)
	}

	r, err := friedman.NewRankMatrix(m.Treatments(), direction, ranks)
	if err != nil {
		// rankBlock only produces in-range ranks of the right width.
		panic("friedman: rank matrix invariant violated: " + err.Error())
	}
	return r
}

// rankBlock ranks one block's scores with max-tie competition ranking.
func rankBlock(scores []float64, direction friedman.Direction) []int {
	n := len(scores)

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range scores {
		pairs[i] = pair{value: v, index: i}
	}

	// Best first: rank 1 goes to the front of the slice.
	sort.SliceStable(pairs, func(i, j int) bool {
		if direction == friedman.Ascending {
			return pairs[i].value < pairs[j].value
		}
		return pairs[i].value > pairs[j].value
	})

	ranks := make([]int, n)
	i := 0
	for i < n {
		j := i
		for j+1 < n && pairs[j+1].value == pairs[i].value {
			j++
		}
		// Positions i..j (0-based) are tied; all take the last position, j+1.
		for t := i; t <= j; t++ {
			ranks[pairs[t].index] = j + 1
		}
		i = j + 1
	}

	return ranks
}
