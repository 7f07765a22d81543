package friedman

import (
	"encoding/json"
	"fmt"
	"math"

	"gofriedman/domain/core"
)

// Pair is an unordered pair of distinct treatments, stored with A preceding B
// in treatment order.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

func (p Pair) String() string { return p.A + " vs " + p.B }

// Comparison is the Nemenyi verdict for one pair.
type Comparison struct {
	Pair
	Difference  float64 `json:"difference"` // |avg_rank(A) - avg_rank(B)|
	Significant bool    `json:"significant"`
}

// PairwiseResult is the complete Nemenyi pairwise mask: every unordered pair of
// distinct treatments maps to whether their average ranks differ by more than
// the critical difference.
type PairwiseResult struct {
	treatments         []string
	index              map[string]int
	averageRanks       []float64
	criticalDifference float64
	comparisons        []Comparison
}

// NewPairwiseResult evaluates every pair of treatments against the critical difference.
func NewPairwiseResult(treatments []string, averageRanks []float64, criticalDifference float64) (*PairwiseResult, error) {
	if len(treatments) != len(averageRanks) {
		return nil, fmt.Errorf("%d average ranks for %d treatments", len(averageRanks), len(treatments))
	}
	if len(treatments) < 2 {
		return nil, core.NewInsufficientTreatmentsError(len(treatments), 2)
	}
	if math.IsNaN(criticalDifference) || criticalDifference < 0 {
		return nil, fmt.Errorf("critical difference must be non-negative, got %v", criticalDifference)
	}

	k := len(treatments)
	index := make(map[string]int, k)
	for i, name := range treatments {
		index[name] = i
	}

	comparisons := make([]Comparison, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := math.Abs(averageRanks[i] - averageRanks[j])
			comparisons = append(comparisons, Comparison{
				Pair:        Pair{A: treatments[i], B: treatments[j]},
				Difference:  diff,
				Significant: diff > criticalDifference,
			})
		}
	}

	return &PairwiseResult{
		treatments:         append([]string(nil), treatments...),
		index:              index,
		averageRanks:       append([]float64(nil), averageRanks...),
		criticalDifference: criticalDifference,
		comparisons:        comparisons,
	}, nil
}

func (p *PairwiseResult) CriticalDifference() float64 { return p.criticalDifference }
func (p *PairwiseResult) Treatments() []string        { return append([]string(nil), p.treatments...) }

// Comparisons lists every pair in treatment order: (t0,t1), (t0,t2), ..., (tk-2,tk-1).
func (p *PairwiseResult) Comparisons() []Comparison {
	return append([]Comparison(nil), p.comparisons...)
}

// Pairs lists every unordered pair in the same order as Comparisons.
func (p *PairwiseResult) Pairs() []Pair {
	out := make([]Pair, len(p.comparisons))
	for i, c := range p.comparisons {
		out[i] = c.Pair
	}
	return out
}

// Mask returns the full pair → significant mapping.
func (p *PairwiseResult) Mask() map[Pair]bool {
	out := make(map[Pair]bool, len(p.comparisons))
	for _, c := range p.comparisons {
		out[c.Pair] = c.Significant
	}
	return out
}

// Significant reports whether a and b differ significantly, in either argument
// order. ok is false when either name is unknown or a == b.
func (p *PairwiseResult) Significant(a, b string) (significant, ok bool) {
	c, ok := p.Lookup(a, b)
	return c.Significant, ok
}

// Lookup returns the comparison for a and b, in either argument order.
func (p *PairwiseResult) Lookup(a, b string) (Comparison, bool) {
	i, okA := p.index[a]
	j, okB := p.index[b]
	if !okA || !okB || i == j {
		return Comparison{}, false
	}
	if i > j {
		i, j = j, i
	}
	k := len(p.treatments)
	// Position of (i, j) in the row-major upper triangle.
	pos := i*k - i*(i+1)/2 + (j - i - 1)
	return p.comparisons[pos], true
}

// SignificantPairs lists only the pairs whose difference exceeds the critical difference.
func (p *PairwiseResult) SignificantPairs() []Pair {
	var out []Pair
	for _, c := range p.comparisons {
		if c.Significant {
			out = append(out, c.Pair)
		}
	}
	return out
}

// Best returns the treatment with the lowest average rank. Rank 1 is the best
// position in both ranking directions. Ties go to the earlier treatment.
func (p *PairwiseResult) Best() string {
	best := 0
	for i, r := range p.averageRanks {
		if r < p.averageRanks[best] {
			best = i
		}
	}
	return p.treatments[best]
}

// IndistinguishableFromBest lists, in treatment order, the best-ranked treatment
// and every treatment whose average rank is within the critical difference of it.
func (p *PairwiseResult) IndistinguishableFromBest() []string {
	best := p.averageRanks[p.index[p.Best()]]
	var out []string
	for i, r := range p.averageRanks {
		if math.Abs(r-best) <= p.criticalDifference {
			out = append(out, p.treatments[i])
		}
	}
	return out
}

type pairwiseJSON struct {
	CriticalDifference        float64      `json:"critical_difference"`
	Comparisons               []Comparison `json:"comparisons"`
	Best                      string       `json:"best"`
	IndistinguishableFromBest []string     `json:"indistinguishable_from_best"`
}

func (p *PairwiseResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(pairwiseJSON{
		CriticalDifference:        p.criticalDifference,
		Comparisons:               p.comparisons,
		Best:                      p.Best(),
		IndistinguishableFromBest: p.IndistinguishableFromBest(),
	})
}
