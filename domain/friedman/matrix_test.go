package friedman

import (
	"math"
	"testing"

	"gofriedman/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeasurementMatrix_SortsTreatments(t *testing.T) {
	m, err := NewMeasurementMatrix(2, map[string][]float64{
		"svm": {1, 2},
		"knn": {3, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"knn", "svm"}, m.Treatments())
	assert.Equal(t, []string{"1", "2"}, m.BlockLabels())
	assert.Equal(t, []float64{3, 1}, m.Block(0))
	assert.Equal(t, []float64{1, 2}, m.Column(1))
}

func TestNewMeasurementMatrix_Validation(t *testing.T) {
	tests := []struct {
		name   string
		blocks int
		order  []string
		scores map[string][]float64
		want   error
	}{
		{"zero blocks", 0, []string{"a"}, map[string][]float64{"a": {}}, core.ErrInvalidBlockCount},
		{"no treatments", 1, nil, map[string][]float64{}, core.ErrInsufficientTreatments},
		{"short column", 3, []string{"a"}, map[string][]float64{"a": {1, 2}}, core.ErrShapeMismatch},
		{"empty name", 1, []string{""}, map[string][]float64{"": {1}}, core.ErrInvalidTreatment},
		{"padded name", 1, []string{" a"}, map[string][]float64{" a": {1}}, core.ErrInvalidTreatment},
		{"duplicate", 1, []string{"a", "a"}, map[string][]float64{"a": {1}}, core.ErrInvalidTreatment},
		{"unordered key", 1, []string{"a"}, map[string][]float64{"a": {1}, "b": {2}}, core.ErrInvalidTreatment},
		{"nan", 1, []string{"a"}, map[string][]float64{"a": {math.NaN()}}, core.ErrInvalidScore},
		{"inf", 1, []string{"a"}, map[string][]float64{"a": {math.Inf(-1)}}, core.ErrInvalidScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMeasurementMatrixOrdered(tt.blocks, tt.order, tt.scores)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMeasurementMatrix_WithBlockLabels(t *testing.T) {
	m, err := NewMeasurementMatrix(2, map[string][]float64{"a": {1, 2}})
	require.NoError(t, err)

	labelled, err := m.WithBlockLabels([]string{"iris", "wine"})
	require.NoError(t, err)
	assert.Equal(t, []string{"iris", "wine"}, labelled.BlockLabels())
	assert.Equal(t, []string{"1", "2"}, m.BlockLabels())
	assert.Equal(t, m.Hash(), labelled.Hash())

	_, err = m.WithBlockLabels([]string{"iris"})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
	_, err = m.WithBlockLabels([]string{"iris", "iris"})
	assert.ErrorIs(t, err, core.ErrInvalidTreatment)
	_, err = m.WithBlockLabels([]string{"iris", LabelAverageRank})
	assert.ErrorIs(t, err, core.ErrInvalidTreatment)
}

func TestMeasurementMatrix_HashDependsOnOrder(t *testing.T) {
	scores := map[string][]float64{"a": {1, 2}, "b": {3, 4}}
	ab, err := NewMeasurementMatrixOrdered(2, []string{"a", "b"}, scores)
	require.NoError(t, err)
	ba, err := NewMeasurementMatrixOrdered(2, []string{"b", "a"}, scores)
	require.NoError(t, err)

	assert.NotEqual(t, ab.Hash(), ba.Hash())
	assert.Equal(t, ab.Map(), ba.Map())
}
