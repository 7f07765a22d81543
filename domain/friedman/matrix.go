package friedman

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gofriedman/domain/core"

	"gonum.org/v1/gonum/mat"
)

// MeasurementMatrix holds raw scores, one row per block and one column per treatment.
// INVARIANTS:
// - at least one block and one treatment
// - treatment names are unique and non-empty
// - every cell is finite
// - never mutated after construction; accessors return copies
type MeasurementMatrix struct {
	treatments []string
	index      map[string]int
	labels     []string
	data       *mat.Dense
}

// NewMeasurementMatrix builds a matrix from a treatment → scores mapping.
// Go maps carry no order, so treatments are ordered lexicographically.
func NewMeasurementMatrix(blocks int, scores map[string][]float64) (*MeasurementMatrix, error) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return NewMeasurementMatrixOrdered(blocks, names, scores)
}

// NewMeasurementMatrixOrdered builds a matrix with an explicit treatment column order.
// order must name exactly the keys of scores.
func NewMeasurementMatrixOrdered(blocks int, order []string, scores map[string][]float64) (*MeasurementMatrix, error) {
	if blocks <= 0 {
		return nil, core.NewInvalidBlockCountError(blocks)
	}
	if len(order) == 0 {
		return nil, core.NewInsufficientTreatmentsError(0, 1)
	}

	index := make(map[string]int, len(order))
	for i, name := range order {
		if _, err := core.ParseTreatmentName(name); err != nil {
			return nil, err
		}
		if _, dup := index[name]; dup {
			return nil, core.NewInvalidTreatmentError(name, "duplicate name")
		}
		if _, ok := scores[name]; !ok {
			return nil, core.NewInvalidTreatmentError(name, "no scores supplied")
		}
		index[name] = i
	}
	for name := range scores {
		if _, ok := index[name]; !ok {
			return nil, core.NewInvalidTreatmentError(name, "missing from treatment order")
		}
	}

	k := len(order)
	data := make([]float64, blocks*k)
	for j, name := range order {
		col := scores[name]
		if len(col) != blocks {
			return nil, core.NewShapeMismatchError(name, len(col), blocks)
		}
		for b, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.NewInvalidScoreError(name, b, v)
			}
			data[b*k+j] = v
		}
	}

	labels := make([]string, blocks)
	for b := range labels {
		labels[b] = strconv.Itoa(b + 1)
	}

	return &MeasurementMatrix{
		treatments: append([]string(nil), order...),
		index:      index,
		labels:     labels,
		data:       mat.NewDense(blocks, k, data),
	}, nil
}

// WithBlockLabels returns a copy of the matrix whose blocks carry the given labels
// (e.g. dataset names). Labels must be unique and must not collide with summary row labels.
func (m *MeasurementMatrix) WithBlockLabels(labels []string) (*MeasurementMatrix, error) {
	if len(labels) != m.Blocks() {
		return nil, fmt.Errorf("%w: %d block labels for %d blocks", core.ErrShapeMismatch, len(labels), m.Blocks())
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if IsSummaryLabel(l) {
			return nil, core.NewInvalidTreatmentError(l, "block label is reserved for a summary row")
		}
		if _, dup := seen[l]; dup {
			return nil, core.NewInvalidTreatmentError(l, "duplicate block label")
		}
		seen[l] = struct{}{}
	}

	var data mat.Dense
	data.CloneFrom(m.data)
	return &MeasurementMatrix{
		treatments: m.treatments,
		index:      m.index,
		labels:     append([]string(nil), labels...),
		data:       &data,
	}, nil
}

// Blocks returns N.
func (m *MeasurementMatrix) Blocks() int {
	r, _ := m.data.Dims()
	return r
}

// NumTreatments returns k.
func (m *MeasurementMatrix) NumTreatments() int {
	return len(m.treatments)
}

func (m *MeasurementMatrix) Treatments() []string {
	return append([]string(nil), m.treatments...)
}

func (m *MeasurementMatrix) BlockLabels() []string {
	return append([]string(nil), m.labels...)
}

// TreatmentIndex returns the column of the named treatment.
func (m *MeasurementMatrix) TreatmentIndex(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// At returns the score of treatment t in block b.
func (m *MeasurementMatrix) At(b, t int) float64 {
	return m.data.At(b, t)
}

// Block returns a copy of block b's scores in treatment order.
func (m *MeasurementMatrix) Block(b int) []float64 {
	return mat.Row(nil, b, m.data)
}

// Column returns a copy of treatment t's scores in block order.
func (m *MeasurementMatrix) Column(t int) []float64 {
	return mat.Col(nil, t, m.data)
}

// Scores returns a copy of the named treatment's scores.
func (m *MeasurementMatrix) Scores(name string) ([]float64, bool) {
	t, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.Column(t), true
}

// Map returns the scores in the constructor's input shape.
func (m *MeasurementMatrix) Map() map[string][]float64 {
	out := make(map[string][]float64, len(m.treatments))
	for t, name := range m.treatments {
		out[name] = m.Column(t)
	}
	return out
}

// Hash fingerprints treatment order and scores.
func (m *MeasurementMatrix) Hash() core.DataHash {
	rowMajor := make([]float64, 0, m.Blocks()*m.NumTreatments())
	for b := 0; b < m.Blocks(); b++ {
		rowMajor = append(rowMajor, m.data.RawRowView(b)...)
	}
	return core.ComputeDataHash(m.treatments, rowMajor)
}
