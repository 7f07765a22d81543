package friedman

import (
	"fmt"
	"math"
	"strconv"
)

// Direction controls which end of a block's scores receives rank 1.
type Direction int

const (
	// Descending gives the highest score rank 1. This is the default.
	Descending Direction = iota
	// Ascending gives the lowest score rank 1 (e.g. error rates, runtimes).
	Ascending
)

func (d Direction) String() string {
	switch d {
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DirectionFromAscending maps the boolean option used by callers onto a Direction.
func DirectionFromAscending(ascending bool) Direction {
	if ascending {
		return Ascending
	}
	return Descending
}

// Significance is the family-wise alpha of the Nemenyi post-hoc test.
type Significance float64

const (
	Alpha05 Significance = 0.05 // default
	Alpha10 Significance = 0.10
)

func (s Significance) Float64() float64 { return float64(s) }

func (s Significance) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64)
}

// Summary row labels, in the order they follow the block rows.
const (
	LabelAverage     = "Average"
	LabelStd         = "Std"
	LabelAverageRank = "Average rank"
)

// SummaryLabels lists the synthetic rows appended after the block rows.
var SummaryLabels = []string{LabelAverage, LabelStd, LabelAverageRank}

// IsSummaryLabel reports whether label names a synthetic summary row.
func IsSummaryLabel(label string) bool {
	for _, l := range SummaryLabels {
		if l == label {
			return true
		}
	}
	return false
}

// FormatScore renders a raw score the shortest way that round-trips.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSummary renders a summary statistic with fixed precision.
func FormatSummary(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// JSONFloat marshals NaN and ±Inf as null, which encoding/json otherwise rejects.
// A sample std over one block is NaN, and a perfectly separated design has an
// infinite Iman-Davenport statistic.
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// JSONFloats converts a float slice for JSON output.
func JSONFloats(values []float64) []JSONFloat {
	out := make([]JSONFloat, len(values))
	for i, v := range values {
		out[i] = JSONFloat(v)
	}
	return out
}
