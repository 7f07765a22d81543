package friedman

import (
	"fmt"

	"gofriedman/domain/core"
)

// RankMatrix holds one integer rank per (block, treatment) cell, same shape as
// the MeasurementMatrix it was computed from.
type RankMatrix struct {
	treatments []string
	direction  Direction
	ranks      [][]int
}

// NewRankMatrix wraps precomputed ranks. Every block must have one rank per
// treatment, each in [1, k].
func NewRankMatrix(treatments []string, direction Direction, ranks [][]int) (*RankMatrix, error) {
	k := len(treatments)
	if len(ranks) == 0 {
		return nil, core.NewInvalidBlockCountError(0)
	}
	out := make([][]int, len(ranks))
	for b, row := range ranks {
		if len(row) != k {
			return nil, fmt.Errorf("%w: block %d has %d ranks for %d treatments", core.ErrShapeMismatch, b+1, len(row), k)
		}
		for t, r := range row {
			if r < 1 || r > k {
				return nil, fmt.Errorf("rank %d for treatment %q in block %d is outside [1, %d]", r, treatments[t], b+1, k)
			}
		}
		out[b] = append([]int(nil), row...)
	}
	return &RankMatrix{
		treatments: append([]string(nil), treatments...),
		direction:  direction,
		ranks:      out,
	}, nil
}

func (r *RankMatrix) Blocks() int          { return len(r.ranks) }
func (r *RankMatrix) NumTreatments() int   { return len(r.treatments) }
func (r *RankMatrix) Direction() Direction { return r.direction }
func (r *RankMatrix) Treatments() []string { return append([]string(nil), r.treatments...) }
func (r *RankMatrix) At(b, t int) int      { return r.ranks[b][t] }
func (r *RankMatrix) Block(b int) []int    { return append([]int(nil), r.ranks[b]...) }

// Column returns treatment t's ranks in block order.
func (r *RankMatrix) Column(t int) []int {
	col := make([]int, len(r.ranks))
	for b := range r.ranks {
		col[b] = r.ranks[b][t]
	}
	return col
}

// ColumnFloat is Column converted for use with float statistics.
func (r *RankMatrix) ColumnFloat(t int) []float64 {
	col := make([]float64, len(r.ranks))
	for b := range r.ranks {
		col[b] = float64(r.ranks[b][t])
	}
	return col
}

// Rows returns a deep copy of all ranks, block-major.
func (r *RankMatrix) Rows() [][]int {
	out := make([][]int, len(r.ranks))
	for b := range r.ranks {
		out[b] = append([]int(nil), r.ranks[b]...)
	}
	return out
}
