package friedman

import (
	"testing"

	"gofriedman/domain/friedman"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRankBlock(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		direction friedman.Direction
		want      []int
	}{
		{"descending distinct", []float64{0.2, 0.9, 0.5}, friedman.Descending, []int{3, 1, 2}},
		{"descending tie takes max rank", []float64{5, 7, 7}, friedman.Descending, []int{3, 2, 2}},
		{"ascending distinct", []float64{1, 2, 3}, friedman.Ascending, []int{1, 2, 3}},
		{"ascending tie takes max rank", []float64{5, 7, 7}, friedman.Ascending, []int{1, 3, 3}},
		{"all tied", []float64{3, 3, 3, 3}, friedman.Descending, []int{4, 4, 4, 4}},
		{"two tie groups", []float64{1, 1, 2, 2}, friedman.Descending, []int{4, 4, 2, 2}},
		{"negative scores", []float64{-1, -3, 0}, friedman.Descending, []int{2, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rankBlock(tt.scores, tt.direction))
		})
	}
}

func TestRank_Matrix(t *testing.T) {
	m, err := friedman.NewMeasurementMatrix(2, map[string][]float64{
		"a": {0.9, 0.1},
		"b": {0.5, 0.5},
		"c": {0.1, 0.5},
	})
	require.NoError(t, err)

	desc := Rank(m, friedman.Descending)
	assert.Equal(t, friedman.Descending, desc.Direction())
	assert.Equal(t, [][]int{{1, 2, 3}, {3, 2, 2}}, desc.Rows())

	asc := Rank(m, friedman.Ascending)
	assert.Equal(t, [][]int{{3, 2, 1}, {1, 3, 3}}, asc.Rows())
}

func TestRank_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(1, 9).Draw(t, "k")
		// Small integer range forces frequent ties.
		scores := rapid.SliceOfN(rapid.IntRange(0, 4), k, k).Draw(t, "scores")

		block := make([]float64, k)
		negated := make([]float64, k)
		for i, s := range scores {
			block[i] = float64(s)
			negated[i] = -float64(s)
		}

		ranks := rankBlock(block, friedman.Descending)
		maxRank := 0
		for i, r := range ranks {
			if r < 1 || r > k {
				t.Fatalf("rank %d out of [1,%d]", r, k)
			}
			if r > maxRank {
				maxRank = r
			}
			// A tie group's rank counts every score at or above it.
			atOrAbove := 0
			for _, v := range block {
				if v >= block[i] {
					atOrAbove++
				}
			}
			if r != atOrAbove {
				t.Fatalf("score %v ranked %d, want %d", block[i], r, atOrAbove)
			}
		}
		if maxRank != k {
			t.Fatalf("worst rank %d, want %d", maxRank, k)
		}

		asc := rankBlock(negated, friedman.Ascending)
		for i := range ranks {
			if asc[i] != ranks[i] {
				t.Fatalf("ascending on negated scores %v != descending %v", asc, ranks)
			}
		}
	})
}
