package friedman

import (
	"sync"

	"gofriedman/domain/core"
	"gofriedman/domain/friedman"
	"gofriedman/internal"
)

// Analysis runs the Friedman/Nemenyi pipeline over one measurement matrix.
// BuildTable publishes an immutable table; every query before that fails with
// core.ErrUninitializedState. Published values are never mutated, so read
// accessors are safe to call concurrently.
type Analysis struct {
	data   *friedman.MeasurementMatrix
	logger *internal.Logger

	mu           sync.RWMutex
	table        *friedman.Table
	significance friedman.Significance
}

// Option configures an Analysis.
type Option func(*Analysis)

// WithLogger routes pipeline logging to l.
func WithLogger(l *internal.Logger) Option {
	return func(a *Analysis) {
		if l != nil {
			a.logger = l
		}
	}
}

// New validates the raw input and creates an analysis. Treatments are ordered
// lexicographically; use NewFromMatrix for an explicit order.
func New(blocks int, treatments map[string][]float64, opts ...Option) (*Analysis, error) {
	m, err := friedman.NewMeasurementMatrix(blocks, treatments)
	if err != nil {
		return nil, err
	}
	return NewFromMatrix(m, opts...), nil
}

// NewFromMatrix creates an analysis over an already validated matrix.
func NewFromMatrix(m *friedman.MeasurementMatrix, opts ...Option) *Analysis {
	a := &Analysis{
		data:         m,
		logger:       internal.NewNopLogger(),
		significance: friedman.Alpha05,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildOptions controls table assembly.
type BuildOptions struct {
	// Ascending ranks the lowest score first. Default is descending.
	Ascending bool
	// Significance selects the Nemenyi critical value row. Zero means Alpha05.
	Significance friedman.Significance
}

// BuildTable ranks the data, assembles the Friedman table and publishes it for
// later queries. On error nothing is published and any previous table stays.
func (a *Analysis) BuildTable(opts BuildOptions) (*friedman.Table, error) {
	significance := opts.Significance
	if significance == 0 {
		significance = friedman.Alpha05
	}
	if _, ok := qAlpha[significance]; !ok {
		return nil, core.NewUnsupportedSignificanceError(significance.Float64())
	}

	direction := friedman.DirectionFromAscending(opts.Ascending)
	ranks := Rank(a.data, direction)
	table, err := AssembleTable(a.data, ranks)
	if err != nil {
		a.logger.Warn("friedman table rejected: %v", err)
		return nil, err
	}

	a.mu.Lock()
	a.table = table
	a.significance = significance
	a.mu.Unlock()

	a.logger.Debug("friedman table assembled: blocks=%d treatments=%d direction=%s alpha=%s",
		table.Blocks(), table.NumTreatments(), direction, significance)
	return table, nil
}

// Data returns the measurement matrix. It is available before BuildTable.
func (a *Analysis) Data() *friedman.MeasurementMatrix {
	return a.data
}

func (a *Analysis) published(query string) (*friedman.Table, friedman.Significance, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.table == nil {
		return nil, 0, core.NewUninitializedStateError(query)
	}
	return a.table, a.significance, nil
}

// Table returns the published Friedman table.
func (a *Analysis) Table() (*friedman.Table, error) {
	t, _, err := a.published("Table")
	return t, err
}

// Ranks returns the rank matrix behind the published table.
func (a *Analysis) Ranks() (*friedman.RankMatrix, error) {
	t, _, err := a.published("Ranks")
	if err != nil {
		return nil, err
	}
	return t.Ranks(), nil
}

// Statistic returns the Friedman statistic of the published table.
func (a *Analysis) Statistic() (float64, error) {
	t, _, err := a.published("Statistic")
	if err != nil {
		return 0, err
	}
	return Statistic(t), nil
}

// Test returns the statistic with its chi-square and Iman-Davenport p-values.
func (a *Analysis) Test() (Test, error) {
	t, _, err := a.published("Test")
	if err != nil {
		return Test{}, err
	}
	return NewTest(t), nil
}

// CriticalDifference returns the Nemenyi critical difference for the published table.
func (a *Analysis) CriticalDifference() (float64, error) {
	t, alpha, err := a.published("CriticalDifference")
	if err != nil {
		return 0, err
	}
	return CriticalDifference(t.NumTreatments(), t.Blocks(), alpha)
}

// Pairwise returns the complete Nemenyi pairwise significance result.
func (a *Analysis) Pairwise() (*friedman.PairwiseResult, error) {
	t, alpha, err := a.published("Pairwise")
	if err != nil {
		return nil, err
	}
	cd, err := CriticalDifference(t.NumTreatments(), t.Blocks(), alpha)
	if err != nil {
		return nil, err
	}
	return Pairwise(t, cd)
}

// Report bundles every query over the published table.
func (a *Analysis) Report() (*Report, error) {
	t, alpha, err := a.published("Report")
	if err != nil {
		return nil, err
	}
	report, err := NewReport(t, alpha)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("friedman report %s: statistic=%.4f p=%.4g cd=%.4f significant_pairs=%d",
		report.ID, report.Test.Statistic, report.Test.PValue, report.CriticalDifference,
		len(report.Pairwise.SignificantPairs()))
	return report, nil
}
