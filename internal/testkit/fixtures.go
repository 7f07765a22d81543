package testkit

import (
	"encoding/csv"
	"os"
	"testing"

	"gofriedman/domain/friedman"

	"github.com/stretchr/testify/require"
)

// LatinSquare returns k blocks where each treatment takes every rank exactly
// once, so all average ranks tie and the Friedman statistic is zero.
func LatinSquare(k int) map[string][]float64 {
	scores := make(map[string][]float64, k)
	for t := 0; t < k; t++ {
		col := make([]float64, k)
		for b := 0; b < k; b++ {
			col[b] = float64((t+b)%k + 1)
		}
		scores[TreatmentName(t)] = col
	}
	return scores
}

// Separated returns n blocks where treatment t always scores t+1, so under
// descending ranking the last treatment ranks first in every block.
func Separated(k, n int) map[string][]float64 {
	scores := make(map[string][]float64, k)
	for t := 0; t < k; t++ {
		col := make([]float64, n)
		for b := range col {
			col[b] = float64(t + 1)
		}
		scores[TreatmentName(t)] = col
	}
	return scores
}

// Matrix builds a matrix in sorted treatment order or fails the test.
func Matrix(t testing.TB, blocks int, scores map[string][]float64) *friedman.MeasurementMatrix {
	t.Helper()
	m, err := friedman.NewMeasurementMatrix(blocks, scores)
	require.NoError(t, err)
	return m
}

// WriteCSV writes m as a block-labelled CSV file and returns its path.
func WriteCSV(t testing.TB, dir string, m *friedman.MeasurementMatrix) string {
	t.Helper()
	f, err := os.CreateTemp(dir, "scores-*.csv")
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(append([]string{"dataset"}, m.Treatments()...)))
	labels := m.BlockLabels()
	for b := 0; b < m.Blocks(); b++ {
		row := []string{labels[b]}
		for _, v := range m.Block(b) {
			row = append(row, friedman.FormatScore(v))
		}
		require.NoError(t, w.Write(row))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return f.Name()
}
