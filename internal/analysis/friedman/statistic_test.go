package friedman

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"gofriedman/domain/core"
	"gofriedman/domain/friedman"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"pgregory.net/rapid"
)

func buildTable(t testing.TB, blocks int, scores map[string][]float64, direction friedman.Direction) *friedman.Table {
	t.Helper()
	m, err := friedman.NewMeasurementMatrix(blocks, scores)
	require.NoError(t, err)
	table, err := AssembleTable(m, Rank(m, direction))
	require.NoError(t, err)
	return table
}

func TestAssembleTable_SummaryRows(t *testing.T) {
	table := buildTable(t, 5, map[string][]float64{
		"A": {1, 2, 3, 4, 5},
		"B": {5, 4, 3, 2, 1},
		"C": {3, 3, 3, 3, 3},
	}, friedman.Descending)

	assert.Equal(t, 5, table.Blocks())
	assert.Equal(t, []string{"A", "B", "C"}, table.Treatments())

	// Block 3 ties everyone at 3, so it ranks every treatment 3.
	assert.Equal(t, friedman.Cell{Value: 3, Rank: 3}, table.Cell(2, 0))
	assert.Equal(t, "5 (1)", table.Cell(0, 1).String())

	assert.InDeltaSlice(t, []float64{3, 3, 3}, table.Average(), 1e-12)
	assert.InDeltaSlice(t, []float64{math.Sqrt(2.5), math.Sqrt(2.5), 0}, table.Std(), 1e-12)
	assert.InDeltaSlice(t, []float64{2.2, 2.2, 2.2}, table.AverageRank(), 1e-12)

	for i := 0; i < table.NumTreatments(); i++ {
		col := table.Data().Column(i)
		assert.InDelta(t, stat.Mean(col, nil), table.Average()[i], 1e-12)
		assert.InDelta(t, stat.StdDev(col, nil), table.Std()[i], 1e-12)
		assert.InDelta(t, stat.Mean(table.Ranks().ColumnFloat(i), nil), table.AverageRank()[i], 1e-12)
	}
}

func TestAssembleTable_SingleBlockStdIsNaN(t *testing.T) {
	table := buildTable(t, 1, map[string][]float64{
		"a": {1}, "b": {2}, "c": {3},
	}, friedman.Descending)

	for _, v := range table.Std() {
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, []float64{3, 2, 1}, table.AverageRank())
}

func TestAssembleTable_TooFewTreatments(t *testing.T) {
	m, err := friedman.NewMeasurementMatrix(3, map[string][]float64{
		"a": {1, 2, 3},
		"b": {3, 2, 1},
	})
	require.NoError(t, err)

	_, err = AssembleTable(m, Rank(m, friedman.Descending))
	assert.ErrorIs(t, err, core.ErrInsufficientTreatments)
}

func TestStatistic(t *testing.T) {
	t.Run("equal average ranks with a tied block", func(t *testing.T) {
		table := buildTable(t, 5, map[string][]float64{
			"A": {1, 2, 3, 4, 5},
			"B": {5, 4, 3, 2, 1},
			"C": {3, 3, 3, 3, 3},
		}, friedman.Descending)
		// n2 = 5·3·0.2² = 0.6, n3 = 11/10.
		assert.InDelta(t, 6.0/11.0, Statistic(table), 1e-12)
	})

	t.Run("latin square has zero statistic", func(t *testing.T) {
		table := buildTable(t, 3, map[string][]float64{
			"A": {1, 2, 3},
			"B": {2, 3, 1},
			"C": {3, 1, 2},
		}, friedman.Descending)
		assert.Equal(t, []float64{2, 2, 2}, table.AverageRank())
		assert.InDelta(t, 0, Statistic(table), 1e-12)
	})

	t.Run("perfect separation reaches the maximum", func(t *testing.T) {
		table := buildTable(t, 3, map[string][]float64{
			"A": {1, 1, 1},
			"B": {2, 2, 2},
			"C": {3, 3, 3},
		}, friedman.Descending)
		assert.Equal(t, []float64{3, 2, 1}, table.AverageRank())
		assert.InDelta(t, 6, Statistic(table), 1e-12)
	})

	t.Run("ascending mirrors descending", func(t *testing.T) {
		scores := map[string][]float64{
			"A": {1, 1, 1},
			"B": {2, 2, 2},
			"C": {3, 3, 3},
		}
		table := buildTable(t, 3, scores, friedman.Ascending)
		assert.Equal(t, []float64{1, 2, 3}, table.AverageRank())
		assert.InDelta(t, 6, Statistic(table), 1e-12)
	})
}

func TestNewTest(t *testing.T) {
	t.Run("perfect separation", func(t *testing.T) {
		test := NewTest(buildTable(t, 3, map[string][]float64{
			"A": {1, 1, 1},
			"B": {2, 2, 2},
			"C": {3, 3, 3},
		}, friedman.Descending))

		assert.Equal(t, 2, test.DegreesOfFreedom)
		// Chi-square with 2 df has survival exp(-x/2).
		assert.InDelta(t, math.Exp(-3), test.PValue, 1e-9)
		assert.True(t, math.IsInf(test.ImanDavenport, 1))
		assert.Equal(t, 0.0, test.ImanDavenportPValue)
		assert.True(t, test.Reject(0.05))
		assert.False(t, test.Reject(0.01))
	})

	t.Run("no effect", func(t *testing.T) {
		test := NewTest(buildTable(t, 3, map[string][]float64{
			"A": {1, 2, 3},
			"B": {2, 3, 1},
			"C": {3, 1, 2},
		}, friedman.Descending))

		assert.InDelta(t, 1, test.PValue, 1e-12)
		assert.InDelta(t, 0, test.ImanDavenport, 1e-12)
		assert.InDelta(t, 1, test.ImanDavenportPValue, 1e-12)
		assert.False(t, test.Reject(0.10))
	})

	t.Run("iman davenport value", func(t *testing.T) {
		test := NewTest(buildTable(t, 5, map[string][]float64{
			"A": {1, 2, 3, 4, 5},
			"B": {5, 4, 3, 2, 1},
			"C": {3, 3, 3, 3, 3},
		}, friedman.Descending))

		// (N-1)χ² / (N(k-1) - χ²) = 4·(6/11) / (10 - 6/11)
		assert.InDelta(t, 24.0/104.0, test.ImanDavenport, 1e-12)
		assert.Greater(t, test.ImanDavenportPValue, 0.5)
	})

	t.Run("single block", func(t *testing.T) {
		test := NewTest(buildTable(t, 1, map[string][]float64{
			"a": {1}, "b": {2}, "c": {3},
		}, friedman.Descending))

		assert.InDelta(t, 2, test.Statistic, 1e-12)
		assert.True(t, math.IsNaN(test.ImanDavenport))
		assert.True(t, math.IsNaN(test.ImanDavenportPValue))
	})
}

func TestTest_MarshalJSONHandlesNonFinite(t *testing.T) {
	b, err := Test{Statistic: 6, DegreesOfFreedom: 2, PValue: 0.05, ImanDavenport: math.Inf(1)}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"statistic":6,"degrees_of_freedom":2,"p_value":0.05,"iman_davenport":null,"iman_davenport_p_value":0}`, string(b))
}

func TestStatistic_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(MinTreatments, MaxTreatments).Draw(t, "k")
		n := rapid.IntRange(1, 12).Draw(t, "n")
		names := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9"}[:k]

		scores := make(map[string][]float64, k)
		for _, name := range names {
			col := rapid.SliceOfN(rapid.IntRange(0, 5), n, n).Draw(t, name)
			scores[name] = make([]float64, n)
			for b, v := range col {
				scores[name][b] = float64(v)
			}
		}
		direction := friedman.DirectionFromAscending(rapid.Bool().Draw(t, "ascending"))

		m, err := friedman.NewMeasurementMatrix(n, scores)
		if err != nil {
			t.Fatalf("matrix: %v", err)
		}
		table, err := AssembleTable(m, Rank(m, direction))
		if err != nil {
			t.Fatalf("table: %v", err)
		}

		for _, r := range table.AverageRank() {
			if r < 1 || r > float64(k) {
				t.Fatalf("average rank %v out of [1,%d]", r, k)
			}
		}

		// Summary rows round-trip against an independent computation.
		for i := 0; i < k; i++ {
			col := table.Data().Column(i)
			if got, want := table.Average()[i], stat.Mean(col, nil); math.Abs(got-want) > 1e-9 {
				t.Fatalf("average[%d] = %v, want %v", i, got, want)
			}
			std := table.Std()[i]
			if n == 1 {
				if !math.IsNaN(std) {
					t.Fatalf("std[%d] = %v over one block, want NaN", i, std)
				}
			} else if want := stat.StdDev(col, nil); math.Abs(std-want) > 1e-9 {
				t.Fatalf("std[%d] = %v, want %v", i, std, want)
			}
			if got, want := table.AverageRank()[i], stat.Mean(table.Ranks().ColumnFloat(i), nil); math.Abs(got-want) > 1e-9 {
				t.Fatalf("average rank[%d] = %v, want %v", i, got, want)
			}
		}

		s := Statistic(table)
		upper := float64(n * (k - 1))
		if math.IsNaN(s) || s < -1e-9 || s > upper+1e-9 {
			t.Fatalf("statistic %v out of [0,%v]", s, upper)
		}

		test := NewTest(table)
		if test.PValue < 0 || test.PValue > 1 {
			t.Fatalf("p-value %v out of [0,1]", test.PValue)
		}
	})
}

// Pairs of opposite orderings cancel out; flipping the reversed block of each
// pair one at a time spreads the average ranks further apart with N and k fixed.
func TestStatistic_IncreasesWithRankDispersion(t *testing.T) {
	const pairs = 4
	forward := []float64{3, 2, 1}
	reverse := []float64{1, 2, 3}

	prevStat, prevDispersion := -1.0, -1.0
	for flipped := 0; flipped <= pairs; flipped++ {
		scores := map[string][]float64{"A": nil, "B": nil, "C": nil}
		for p := 0; p < pairs; p++ {
			second := reverse
			if p < flipped {
				second = forward
			}
			for i, name := range []string{"A", "B", "C"} {
				scores[name] = append(scores[name], forward[i], second[i])
			}
		}
		table := buildTable(t, 2*pairs, scores, friedman.Descending)

		dispersion := 0.0
		for _, r := range table.AverageRank() {
			dispersion += (r - 2) * (r - 2)
		}
		s := Statistic(table)

		assert.Greater(t, dispersion, prevDispersion, "flipped=%d", flipped)
		assert.Greater(t, s, prevStat, "flipped=%d", flipped)
		prevStat, prevDispersion = s, dispersion
	}

	// Every block now agrees, the statistic's upper bound N(k-1).
	assert.InDelta(t, float64(2*pairs*2), prevStat, 1e-12)
}

func TestStatistic_MonotoneInDispersionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(MinTreatments, 6).Draw(t, "k")
		n := rapid.IntRange(2, 8).Draw(t, "n")
		names := []string{"t0", "t1", "t2", "t3", "t4", "t5"}[:k]

		// Tie-free blocks: each is a permutation of 1..k.
		blocks := make([][]int, n)
		for b := range blocks {
			blocks[b] = rapid.Permutation(seq(k)).Draw(t, fmt.Sprintf("block%d", b))
		}
		// Rewriting one block to match the current best-to-worst order of
		// average ranks never lowers the dispersion.
		before := statisticOf(t, names, blocks)
		target := rapid.IntRange(0, n-1).Draw(t, "target")
		avg := averageRanks(blocks, k)
		order := seq(k)
		sort.SliceStable(order, func(i, j int) bool { return avg[order[i]] < avg[order[j]] })
		for pos, tr := range order {
			blocks[target][tr] = pos + 1
		}
		after := statisticOf(t, names, blocks)

		if after < before-1e-9 {
			t.Fatalf("statistic fell from %v to %v after aligning block %d", before, after, target)
		}
	})
}

func seq(k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func averageRanks(blocks [][]int, k int) []float64 {
	avg := make([]float64, k)
	for _, row := range blocks {
		for t, r := range row {
			avg[t] += float64(r)
		}
	}
	for t := range avg {
		avg[t] /= float64(len(blocks))
	}
	return avg
}

// statisticOf scores rank rows directly: rank r becomes score k+1-r, so
// descending ranking reproduces the rows.
func statisticOf(t *rapid.T, names []string, blocks [][]int) float64 {
	k := len(names)
	scores := make(map[string][]float64, k)
	for i, name := range names {
		for _, row := range blocks {
			scores[name] = append(scores[name], float64(k+1-row[i]))
		}
	}
	m, err := friedman.NewMeasurementMatrixOrdered(len(blocks), names, scores)
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	table, err := AssembleTable(m, Rank(m, friedman.Descending))
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	return Statistic(table)
}
