package profiling

import (
	"encoding/json"

	"gofriedman/domain/friedman"
)

// ScoreProfile summarises the raw score distribution of one treatment across blocks.
type ScoreProfile struct {
	Treatment string
	N         int

	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64

	// Skewness is the adjusted Fisher-Pearson coefficient; 0 below three
	// blocks or when every score is equal.
	Skewness float64
	// Outliers counts scores outside Q1 - 1.5·IQR .. Q3 + 1.5·IQR.
	Outliers int
}

// IQR returns the interquartile range.
func (p ScoreProfile) IQR() float64 { return p.Q3 - p.Q1 }

type scoreProfileJSON struct {
	Treatment string             `json:"treatment"`
	N         int                `json:"n"`
	Min       friedman.JSONFloat `json:"min"`
	Q1        friedman.JSONFloat `json:"q1"`
	Median    friedman.JSONFloat `json:"median"`
	Q3        friedman.JSONFloat `json:"q3"`
	Max       friedman.JSONFloat `json:"max"`
	Skewness  friedman.JSONFloat `json:"skewness"`
	Outliers  int                `json:"outliers"`
}

func (p ScoreProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreProfileJSON{
		Treatment: p.Treatment,
		N:         p.N,
		Min:       friedman.JSONFloat(p.Min),
		Q1:        friedman.JSONFloat(p.Q1),
		Median:    friedman.JSONFloat(p.Median),
		Q3:        friedman.JSONFloat(p.Q3),
		Max:       friedman.JSONFloat(p.Max),
		Skewness:  friedman.JSONFloat(p.Skewness),
		Outliers:  p.Outliers,
	})
}
