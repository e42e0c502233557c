package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"switchback/domain/core"
	"switchback/internal"
	apperrors "switchback/internal/errors"
	"switchback/ports"

	"github.com/gin-gonic/gin"
)

// Server exposes computed reports as read-only JSON
type Server struct {
	router *gin.Engine
	reader ports.ReportReader
	logger *internal.Logger
}

// NewServer creates the API server; ginMode is passed to gin.SetMode when set
func NewServer(reader ports.ReportReader, ginMode string, logger *internal.Logger) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router: gin.New(),
		reader: reader,
		logger: logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/:name", s.handleGetReport)
	api.GET("/manifest", s.handleManifest)
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListReports(c *gin.Context) {
	reports, err := s.reader.ListReports(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

func (s *Server) handleGetReport(c *gin.Context) {
	key, err := core.ParseAnalysisKey(c.Param("name"))
	if err != nil {
		s.fail(c, apperrors.InvalidInput(err.Error()))
		return
	}

	report, err := s.reader.GetReport(c.Request.Context(), key)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleManifest(c *gin.Context) {
	manifest, err := s.reader.Manifest(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, manifest)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
