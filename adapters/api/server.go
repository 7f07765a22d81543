package api

import (
	"bytes"
	"context"
	"net/http"
	"sort"
	"time"

	"gofriedman/domain/friedman"
	"gofriedman/internal"
	analysis "gofriedman/internal/analysis/friedman"
	"gofriedman/internal/config"
	"gofriedman/internal/errors"
	"gofriedman/internal/report"

	"github.com/gin-gonic/gin"
)

// Server exposes the Friedman analysis over HTTP
type Server struct {
	router   *gin.Engine
	defaults config.AnalysisConfig
	logger   *internal.Logger
}

// NewServer creates a server whose requests fall back to defaults for
// direction and significance.
func NewServer(defaults config.AnalysisConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if logger.GetLevel() >= internal.LogLevelDebug {
		router.Use(gin.Logger())
	}

	s := &Server{router: router, defaults: defaults, logger: logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/friedman", s.handleAnalyze)
	api.POST("/friedman/render", s.handleRender)
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("friedman API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down friedman API")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	r, err := s.analyze(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// handleRender returns the report in the format named by ?format= (default markdown).
func (s *Server) handleRender(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatMarkdown)))
	if err != nil {
		s.fail(c, err)
		return
	}
	r, err := s.analyze(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, r, format); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType(format), buf.Bytes())
}

func (s *Server) analyze(c *gin.Context) (*analysis.Report, error) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	m, err := buildMatrix(req)
	if err != nil {
		return nil, err
	}

	opts := analysis.BuildOptions{
		Ascending:    s.defaults.Ascending,
		Significance: s.defaults.Significance,
	}
	if req.Ascending != nil {
		opts.Ascending = *req.Ascending
	}
	if req.Alpha != 0 {
		if opts.Significance, err = analysis.ParseSignificance(req.Alpha); err != nil {
			return nil, err
		}
	}

	a := analysis.NewFromMatrix(m, analysis.WithLogger(s.logger))
	if _, err := a.BuildTable(opts); err != nil {
		return nil, err
	}
	return a.Report()
}

func buildMatrix(req AnalyzeRequest) (*friedman.MeasurementMatrix, error) {
	order := req.Order
	if order == nil {
		for name := range req.Treatments {
			order = append(order, name)
		}
		sort.Strings(order)
	}

	blocks := 0
	if req.Blocks != nil {
		blocks = *req.Blocks
	} else if len(order) > 0 {
		blocks = len(req.Treatments[order[0]])
	}

	m, err := friedman.NewMeasurementMatrixOrdered(blocks, order, req.Treatments)
	if err != nil {
		return nil, err
	}
	if req.BlockLabels != nil {
		return m.WithBlockLabels(req.BlockLabels)
	}
	return m, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := statusFor(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("friedman request failed: %v", err)
	} else {
		s.logger.Debug("friedman request rejected: %v", err)
	}
	c.JSON(status, ErrorResponse{
		Error: appErr.Error(),
		Code:  appErr.Code,
	})
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeShapeMismatch, errors.CodeInsufficientTreatments:
		return http.StatusBadRequest
	case errors.CodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.CodeUninitializedState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatHTML:
		return "text/html; charset=utf-8"
	case report.FormatJSON:
		return "application/json; charset=utf-8"
	case report.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
