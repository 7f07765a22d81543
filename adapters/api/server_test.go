package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gofriedman/domain/friedman"
	"gofriedman/internal/config"
	"gofriedman/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(config.AnalysisConfig{Significance: friedman.Alpha05}, nil)
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalyze(t *testing.T) {
	s := newTestServer()
	w := post(t, s, "/api/friedman", `{
		"blocks": 3,
		"treatments": {"A": [1,1,1], "B": [2,2,2], "C": [3,3,3]},
		"block_labels": ["iris", "wine", "glass"]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Treatments []string `json:"treatments"`
		Direction  string   `json:"direction"`
		Test       struct {
			Statistic float64 `json:"statistic"`
		} `json:"test"`
		Table struct {
			BlockLabels []string `json:"block_labels"`
		} `json:"table"`
		Pairwise struct {
			Comparisons []struct {
				A           string `json:"a"`
				B           string `json:"b"`
				Significant bool   `json:"significant"`
			} `json:"comparisons"`
		} `json:"pairwise"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"A", "B", "C"}, body.Treatments)
	assert.Equal(t, "descending", body.Direction)
	assert.InDelta(t, 6, body.Test.Statistic, 1e-12)
	assert.Equal(t, []string{"iris", "wine", "glass"}, body.Table.BlockLabels)
	require.Len(t, body.Pairwise.Comparisons, 3)
	assert.True(t, body.Pairwise.Comparisons[1].Significant)
	assert.Equal(t, "C", body.Pairwise.Comparisons[1].B)
}

func TestAnalyze_OptionsAndInference(t *testing.T) {
	s := newTestServer()
	w := post(t, s, "/api/friedman", `{
		"treatments": {"A": [1,1], "B": [2,2], "C": [3,3]},
		"order": ["C", "B", "A"],
		"ascending": true,
		"alpha": 0.1
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Blocks     int      `json:"blocks"`
		Treatments []string `json:"treatments"`
		Direction  string   `json:"direction"`
		Alpha      float64  `json:"alpha"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Blocks)
	assert.Equal(t, []string{"C", "B", "A"}, body.Treatments)
	assert.Equal(t, "ascending", body.Direction)
	assert.Equal(t, 0.1, body.Alpha)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"treatments":`, http.StatusBadRequest, errors.CodeInvalidInput},
		{"missing treatments", `{"blocks": 3}`, http.StatusBadRequest, errors.CodeInvalidInput},
		{"shape mismatch", `{"blocks": 3, "treatments": {"A": [1,2,3], "B": [1,2], "C": [1,2,3]}}`,
			http.StatusBadRequest, errors.CodeShapeMismatch},
		{"two treatments", `{"treatments": {"A": [1,2], "B": [2,1]}}`,
			http.StatusBadRequest, errors.CodeInsufficientTreatments},
		{"zero blocks", `{"blocks": 0, "treatments": {"A": [], "B": [], "C": []}}`,
			http.StatusBadRequest, errors.CodeInvalidInput},
		{"unsupported alpha", `{"treatments": {"A": [1], "B": [2], "C": [3]}, "alpha": 0.01}`,
			http.StatusUnprocessableEntity, errors.CodeUnsupported},
		{"too many treatments", `{"treatments": {"a":[1],"b":[2],"c":[3],"d":[4],"e":[5],"f":[6],"g":[7],"h":[8],"i":[9],"j":[10],"k":[11]}}`,
			http.StatusUnprocessableEntity, errors.CodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, newTestServer(), "/api/friedman", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRender(t *testing.T) {
	s := newTestServer()
	body := `{"treatments": {"A": [1,1,1], "B": [2,2,2], "C": [3,3,3]}}`

	w := post(t, s, "/api/friedman/render", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "# Friedman test report")

	w = post(t, s, "/api/friedman/render?format=html", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<table>")

	w = post(t, s, "/api/friedman/render?format=pdf", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRender_HTMLEscapesUserStrings(t *testing.T) {
	s := newTestServer()
	w := post(t, s, "/api/friedman/render?format=html", `{
		"treatments": {"<script>alert(1)</script>": [1,2,3], "B": [2,3,1], "C": [3,1,2]},
		"block_labels": ["<img src=x onerror=alert(2)>", "wine", "glass"]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
}
