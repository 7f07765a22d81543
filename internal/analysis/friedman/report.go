package friedman

import (
	"encoding/json"

	"gofriedman/domain/core"
	"gofriedman/domain/friedman"
	"gofriedman/internal/profiling"
)

// Report is the complete outcome of one Friedman/Nemenyi run.
type Report struct {
	ID                 core.ReportID
	CreatedAt          core.Timestamp
	DataHash           core.DataHash
	Significance       friedman.Significance
	Table              *friedman.Table
	Test               Test
	CriticalDifference float64
	Pairwise           *friedman.PairwiseResult
	// Profiles describes each treatment's raw score distribution, in column order.
	Profiles           []profiling.ScoreProfile
}

// NewReport evaluates every query over an assembled table.
func NewReport(table *friedman.Table, alpha friedman.Significance) (*Report, error) {
	cd, err := CriticalDifference(table.NumTreatments(), table.Blocks(), alpha)
	if err != nil {
		return nil, err
	}
	pairwise, err := Pairwise(table, cd)
	if err != nil {
		return nil, err
	}
	profiles, err := profiling.NewDistributionAnalyzer().ProfileMatrix(table.Data())
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:                 core.NewReportID(),
		CreatedAt:          core.Now(),
		DataHash:           table.Data().Hash(),
		Significance:       alpha,
		Table:              table,
		Test:               NewTest(table),
		CriticalDifference: cd,
		Pairwise:           pairwise,
		Profiles:           profiles,
	}, nil
}

// Blocks returns N.
func (r *Report) Blocks() int { return r.Table.Blocks() }

// Treatments returns the treatment names in column order.
func (r *Report) Treatments() []string { return r.Table.Treatments() }

// Direction returns the ranking direction the table was built with.
func (r *Report) Direction() friedman.Direction { return r.Table.Ranks().Direction() }

// Reject reports whether the omnibus test rejects equal average ranks at the
// report's significance level.
func (r *Report) Reject() bool {
	return r.Test.Reject(r.Significance.Float64())
}

type reportJSON struct {
	ID                 core.ReportID            `json:"id"`
	CreatedAt          core.Timestamp           `json:"created_at"`
	DataHash           string                   `json:"data_hash"`
	Blocks             int                      `json:"blocks"`
	Treatments         []string                 `json:"treatments"`
	Direction          string                   `json:"direction"`
	Alpha              float64                  `json:"alpha"`
	Table              *friedman.Table          `json:"table"`
	Test               Test                     `json:"test"`
	Reject             bool                     `json:"reject"`
	CriticalDifference float64                  `json:"critical_difference"`
	Pairwise           *friedman.PairwiseResult `json:"pairwise"`
	Profiles           []profiling.ScoreProfile `json:"profiles"`
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		ID:                 r.ID,
		CreatedAt:          r.CreatedAt,
		DataHash:           r.DataHash.String(),
		Blocks:             r.Blocks(),
		Treatments:         r.Treatments(),
		Direction:          r.Direction().String(),
		Alpha:              r.Significance.Float64(),
		Table:              r.Table,
		Test:               r.Test,
		Reject:             r.Reject(),
		CriticalDifference: r.CriticalDifference,
		Pairwise:           r.Pairwise,
		Profiles:           r.Profiles,
	})
}
