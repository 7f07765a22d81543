package friedman

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gofriedman/domain/core"
)

// Cell is one (block, treatment) entry of the Friedman table.
type Cell struct {
	Value float64 `json:"value"`
	Rank  int     `json:"rank"`
}

// String renders the cell as "<score> (<rank>)".
func (c Cell) String() string {
	return FormatScore(c.Value) + " (" + strconv.Itoa(c.Rank) + ")"
}

// Table is the assembled Friedman table: block rows of value/rank cells plus
// the Average, Std and Average rank summary vectors. Summary vectors are kept
// apart from the block rows so they can never feed back into a rank average.
type Table struct {
	data        *MeasurementMatrix
	ranks       *RankMatrix
	cells       [][]Cell
	average     []float64
	std         []float64
	averageRank []float64
}

// NewTable pairs a measurement matrix with its ranks and precomputed summary vectors.
func NewTable(data *MeasurementMatrix, ranks *RankMatrix, average, std, averageRank []float64) (*Table, error) {
	n, k := data.Blocks(), data.NumTreatments()
	if ranks.Blocks() != n || ranks.NumTreatments() != k {
		return nil, fmt.Errorf("%w: ranks are %dx%d, data is %dx%d",
			core.ErrShapeMismatch, ranks.Blocks(), ranks.NumTreatments(), n, k)
	}
	for i, v := range [][]float64{average, std, averageRank} {
		if len(v) != k {
			return nil, fmt.Errorf("%w: %s row has %d entries for %d treatments", core.ErrShapeMismatch, SummaryLabels[i], len(v), k)
		}
	}

	cells := make([][]Cell, n)
	for b := 0; b < n; b++ {
		cells[b] = make([]Cell, k)
		for t := 0; t < k; t++ {
			cells[b][t] = Cell{Value: data.At(b, t), Rank: ranks.At(b, t)}
		}
	}

	return &Table{
		data:        data,
		ranks:       ranks,
		cells:       cells,
		average:     append([]float64(nil), average...),
		std:         append([]float64(nil), std...),
		averageRank: append([]float64(nil), averageRank...),
	}, nil
}

func (t *Table) Data() *MeasurementMatrix { return t.data }
func (t *Table) Ranks() *RankMatrix       { return t.ranks }
func (t *Table) Blocks() int              { return len(t.cells) }
func (t *Table) NumTreatments() int       { return t.data.NumTreatments() }
func (t *Table) Treatments() []string     { return t.data.Treatments() }
func (t *Table) BlockLabels() []string    { return t.data.BlockLabels() }
func (t *Table) Cell(b, tr int) Cell      { return t.cells[b][tr] }
func (t *Table) Row(b int) []Cell         { return append([]Cell(nil), t.cells[b]...) }
func (t *Table) Average() []float64       { return append([]float64(nil), t.average...) }
func (t *Table) Std() []float64           { return append([]float64(nil), t.std...) }
func (t *Table) AverageRank() []float64   { return append([]float64(nil), t.averageRank...) }

// Summary returns the summary vector with the given label.
func (t *Table) Summary(label string) ([]float64, bool) {
	switch label {
	case LabelAverage:
		return t.Average(), true
	case LabelStd:
		return t.Std(), true
	case LabelAverageRank:
		return t.AverageRank(), true
	default:
		return nil, false
	}
}

// AverageRankOf looks up one treatment's average rank.
func (t *Table) AverageRankOf(name string) (float64, bool) {
	i, ok := t.data.TreatmentIndex(name)
	if !ok {
		return 0, false
	}
	return t.averageRank[i], true
}

// Header returns the display header: an index column followed by treatment names.
func (t *Table) Header() []string {
	return append([]string{""}, t.data.Treatments()...)
}

// DisplayRows renders the table as strings: one row per block ("<score> (<rank>)"
// cells) followed by the three summary rows. Each row starts with its label.
func (t *Table) DisplayRows() [][]string {
	labels := t.data.BlockLabels()
	rows := make([][]string, 0, len(t.cells)+len(SummaryLabels))
	for b, cells := range t.cells {
		row := make([]string, 0, len(cells)+1)
		row = append(row, labels[b])
		for _, c := range cells {
			row = append(row, c.String())
		}
		rows = append(rows, row)
	}
	for _, label := range SummaryLabels {
		values, _ := t.Summary(label)
		row := make([]string, 0, len(values)+1)
		row = append(row, label)
		for _, v := range values {
			row = append(row, FormatSummary(v))
		}
		rows = append(rows, row)
	}
	return rows
}

type tableJSON struct {
	Treatments  []string    `json:"treatments"`
	BlockLabels []string    `json:"block_labels"`
	Direction   string      `json:"direction"`
	Cells       [][]Cell    `json:"cells"`
	Average     []JSONFloat `json:"average"`
	Std         []JSONFloat `json:"std"`
	AverageRank []JSONFloat `json:"average_rank"`
	Display     [][]string  `json:"display"`
}

// MarshalJSON emits the numeric table alongside its display rendering.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		Treatments:  t.data.Treatments(),
		BlockLabels: t.data.BlockLabels(),
		Direction:   t.ranks.Direction().String(),
		Cells:       t.cells,
		Average:     JSONFloats(t.average),
		Std:         JSONFloats(t.std),
		AverageRank: JSONFloats(t.averageRank),
		Display:     t.DisplayRows(),
	})
}
