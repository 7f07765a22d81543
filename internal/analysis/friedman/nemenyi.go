package friedman

import (
	"math"

	"gofriedman/domain/core"
	"gofriedman/domain/friedman"
)

// MaxTreatments is the largest treatment count covered by the critical value table.
const MaxTreatments = 10

// qAlpha holds two-tailed Nemenyi critical values (studentized range statistic
// divided by √2) for k = 2..10 treatments, from Demšar (2006), "Statistical
// Comparisons of Classifiers over Multiple Data Sets", JMLR 7, Table 5(a).
// The entry for k treatments sits at index k-2.
var qAlpha = map[friedman.Significance][]float64{
	friedman.Alpha05: {1.960, 2.343, 2.569, 2.728, 2.850, 2.949, 3.031, 3.102, 3.164},
	friedman.Alpha10: {1.645, 2.052, 2.291, 2.459, 2.589, 2.693, 2.780, 2.855, 2.920},
}

// CriticalValue looks up q_α for comparing k treatments.
func CriticalValue(k int, alpha friedman.Significance) (float64, error) {
	row, ok := qAlpha[alpha]
	if !ok {
		return 0, core.NewUnsupportedSignificanceError(alpha.Float64())
	}
	if k < 2 {
		return 0, core.NewInsufficientTreatmentsError(k, 2)
	}
	if k > MaxTreatments {
		return 0, core.NewUnsupportedTreatmentsError(k, MaxTreatments)
	}
	return row[k-2], nil
}

// CriticalDifference computes the Nemenyi critical difference for k treatments
// over n blocks: q_α · √(k(k+1) / 6N). Two treatments whose average ranks differ
// by more than this are significantly different.
func CriticalDifference(k, n int, alpha friedman.Significance) (float64, error) {
	if n <= 0 {
		return 0, core.NewInvalidBlockCountError(n)
	}
	q, err := CriticalValue(k, alpha)
	if err != nil {
		return 0, err
	}
	return q * math.Sqrt(float64(k*(k+1))/float64(6*n)), nil
}

// SupportedSignificance lists the alpha levels with an embedded critical value row.
func SupportedSignificance() []friedman.Significance {
	return []friedman.Significance{friedman.Alpha05, friedman.Alpha10}
}

// ParseSignificance maps a float alpha onto a supported level.
func ParseSignificance(alpha float64) (friedman.Significance, error) {
	for _, s := range SupportedSignificance() {
		if math.Abs(alpha-s.Float64()) < 1e-9 {
			return s, nil
		}
	}
	return 0, core.NewUnsupportedSignificanceError(alpha)
}
