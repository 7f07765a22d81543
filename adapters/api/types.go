package api

// AnalyzeRequest is the body of POST /api/friedman.
type AnalyzeRequest struct {
	// Blocks is N. When omitted it is taken from the score sequences.
	Blocks     *int                 `json:"blocks,omitempty"`
	Treatments map[string][]float64 `json:"treatments" binding:"required"`
	// Order fixes the treatment column order; lexicographic when omitted.
	Order       []string `json:"order,omitempty"`
	BlockLabels []string `json:"block_labels,omitempty"`
	Ascending   *bool    `json:"ascending,omitempty"`
	Alpha       float64  `json:"alpha,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
