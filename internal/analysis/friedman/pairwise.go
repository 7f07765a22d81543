package friedman

import (
	"gofriedman/domain/friedman"
)

// Pairwise decides, for every unordered pair of treatments, whether the
// absolute difference of their average ranks exceeds the critical difference.
func Pairwise(table *friedman.Table, criticalDifference float64) (*friedman.PairwiseResult, error) {
	return friedman.NewPairwiseResult(table.Treatments(), table.AverageRank(), criticalDifference)
}
