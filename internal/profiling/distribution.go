package profiling

import (
	"math"

	"gofriedman/domain/friedman"

	"github.com/montanaflynn/stats"
)

// DistributionAnalyzer handles distribution shape analysis of treatment scores
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// ProfileMatrix profiles every treatment column, in column order.
func (da *DistributionAnalyzer) ProfileMatrix(m *friedman.MeasurementMatrix) ([]ScoreProfile, error) {
	profiles := make([]ScoreProfile, 0, m.NumTreatments())
	for t, name := range m.Treatments() {
		p, err := da.AnalyzeScores(name, m.Column(t))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// AnalyzeScores computes the five-number summary, skewness and outlier count
func (da *DistributionAnalyzer) AnalyzeScores(name string, data []float64) (ScoreProfile, error) {
	profile := ScoreProfile{Treatment: name, N: len(data)}

	min, err := stats.Min(data)
	if err != nil {
		return profile, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return profile, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return profile, err
	}

	// Tukey hinges: medians of the lower and upper halves.
	q1, q3 := min, max
	if len(data) > 1 {
		quartiles, err := stats.Quartile(data)
		if err != nil {
			return profile, err
		}
		q1, q3 = quartiles.Q1, quartiles.Q3
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return profile, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return profile, err
	}

	profile.Min = min
	profile.Q1 = q1
	profile.Median = median
	profile.Q3 = q3
	profile.Max = max
	profile.Skewness = calculateSkewness(data, mean, stdDev)
	profile.Outliers = detectOutliers(data, q1, q3)
	return profile, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	// Bias correction for sample skewness
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q1, q3 float64) int {
	iqr := q3 - q1
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
