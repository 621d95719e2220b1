// Package server exposes the search engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/config"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/jobs"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/service"
)

// Server wires the service facade and job manager into a gin router.
type Server struct {
	cfg  *config.Config
	svc  *service.Service
	jobs *jobs.Manager
	log  *slog.Logger
}

// New creates a server around svc. The job manager runs reindex requests
// in the background; one worker is enough since rebuilds are serialized
// anyway.
func New(cfg *config.Config, svc *service.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:  cfg,
		svc:  svc,
		jobs: jobs.NewManager(1, log),
		log:  log,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(corsMiddleware())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/search", s.handleSearch)
		api.GET("/stats", s.handleStats)
		api.GET("/categories", s.handleCategories)
		api.GET("/analyze", s.handleAnalyze)
		api.POST("/reindex", s.handleReindex)
		api.GET("/jobs/:id", s.handleJob)
	}

	return router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.jobs.Start()
	defer s.jobs.Stop()

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request with method, path, status and latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Microsecond).String())
	}
}

// corsMiddleware allows browser frontends on other origins to call the
// API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
