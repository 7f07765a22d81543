package friedman

import (
	"encoding/json"
	"math"

	"gofriedman/domain/friedman"

	"gonum.org/v1/gonum/stat/distuv"
)

// Statistic computes the Friedman test statistic from an assembled table:
//
//	n1 = (k+1)/2
//	n2 = N * Σ_t (R̄_t - n1)²
//	n3 = Σ_b Σ_t (r_bt - n1)² / (N(k-1))
//	statistic = n2 / n3
//
// Without ties this is the classic Friedman χ²_F with k-1 degrees of freedom.
// n3 is never zero for k ≥ 2: under max-tie ranking no cell can sit at n1 in
// every block.
func Statistic(table *friedman.Table) float64 {
	ranks := table.Ranks()
	n := float64(ranks.Blocks())
	k := float64(ranks.NumTreatments())
	n1 := (k + 1) / 2

	n2 := 0.0
	for _, r := range table.AverageRank() {
		n2 += (r - n1) * (r - n1)
	}
	n2 *= n

	n3 := 0.0
	for b := 0; b < ranks.Blocks(); b++ {
		for _, r := range ranks.Block(b) {
			d := float64(r) - n1
			n3 += d * d
		}
	}
	n3 /= n * (k - 1)

	return n2 / n3
}

// Test is the Friedman omnibus result with its chi-square and Iman-Davenport
// approximations.
type Test struct {
	Statistic        float64
	DegreesOfFreedom int
	PValue           float64

	// Iman-Davenport correction, F-distributed with (k-1, (k-1)(N-1)) degrees of freedom.
	ImanDavenport       float64
	ImanDavenportPValue float64
}

type testJSON struct {
	Statistic           friedman.JSONFloat `json:"statistic"`
	DegreesOfFreedom    int                `json:"degrees_of_freedom"`
	PValue              friedman.JSONFloat `json:"p_value"`
	ImanDavenport       friedman.JSONFloat `json:"iman_davenport"`
	ImanDavenportPValue friedman.JSONFloat `json:"iman_davenport_p_value"`
}

func (t Test) MarshalJSON() ([]byte, error) {
	return json.Marshal(testJSON{
		Statistic:           friedman.JSONFloat(t.Statistic),
		DegreesOfFreedom:    t.DegreesOfFreedom,
		PValue:              friedman.JSONFloat(t.PValue),
		ImanDavenport:       friedman.JSONFloat(t.ImanDavenport),
		ImanDavenportPValue: friedman.JSONFloat(t.ImanDavenportPValue),
	})
}

// Reject reports whether the null hypothesis of equal average ranks is
// rejected at alpha by the chi-square approximation.
func (t Test) Reject(alpha float64) bool {
	return t.PValue < alpha
}

// NewTest derives the omnibus test from an assembled table.
func NewTest(table *friedman.Table) Test {
	n := table.Blocks()
	k := table.NumTreatments()
	chi2 := Statistic(table)
	df := k - 1

	test := Test{
		Statistic:        chi2,
		DegreesOfFreedom: df,
		PValue:           distuv.ChiSquared{K: float64(df)}.Survival(chi2),
	}
	test.ImanDavenport, test.ImanDavenportPValue = imanDavenport(chi2, n, k)
	return test
}

// imanDavenport computes F_F = (N-1)χ² / (N(k-1) - χ²). The denominator is zero
// when every block ranks the treatments identically; F_F is then +Inf with p = 0.
func imanDavenport(chi2 float64, n, k int) (float64, float64) {
	denom := float64(n*(k-1)) - chi2
	if n < 2 {
		// (k-1)(N-1) = 0 denominator degrees of freedom.
		return math.NaN(), math.NaN()
	}
	if denom <= 0 {
		return math.Inf(1), 0
	}
	f := float64(n-1) * chi2 / denom
	dist := distuv.F{D1: float64(k - 1), D2: float64((k - 1) * (n - 1))}
	return f, dist.Survival(f)
}
