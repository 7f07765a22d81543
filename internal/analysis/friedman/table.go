package friedman

import (
	"math"

	"gofriedman/domain/core"
	"gofriedman/domain/friedman"

	"github.com/montanaflynn/stats"
)

// MinTreatments is the smallest treatment count the Friedman table supports.
const MinTreatments = 3

// AssembleTable merges raw scores and ranks into the Friedman table and
// computes its summary rows:
//   - Average: mean raw score per treatment
//   - Std: sample standard deviation (N-1) of raw scores per treatment
//   - Average rank: mean rank per treatment over the block rows only
func AssembleTable(m *friedman.MeasurementMatrix, ranks *friedman.RankMatrix) (*friedman.Table, error) {
	k := m.NumTreatments()
	if k < MinTreatments {
		return nil, core.NewInsufficientTreatmentsError(k, MinTreatments)
	}

	average := make([]float64, k)
	std := make([]float64, k)
	averageRank := make([]float64, k)
	for t := 0; t < k; t++ {
		column := m.Column(t)
		average[t] = mean(column)
		std[t] = sampleStdDev(column)
		// RankMatrix holds block rows only; summary rows live on the Table.
		averageRank[t] = mean(ranks.ColumnFloat(t))
	}

	return friedman.NewTable(m, ranks, average, std, averageRank)
}

func mean(data []float64) float64 {
	v, err := stats.Mean(data)
	if err != nil {
		return math.NaN()
	}
	return v
}

// sampleStdDev is NaN for a single block, where a sample deviation is undefined.
func sampleStdDev(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	v, err := stats.StandardDeviationSample(data)
	if err != nil {
		return math.NaN()
	}
	return v
}
