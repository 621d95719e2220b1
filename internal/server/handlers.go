package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/jobs"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/search"
)

// errorResponse is the uniform error body across all endpoints.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps application error codes to HTTP statuses.
func writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeIndexUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.ErrCodeRebuildInProgress:
		status = http.StatusConflict
	case apperrors.ErrCodeJobNotFound, apperrors.ErrCodeCorpusNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	}
	c.JSON(status, errorResponse{Error: err.Error(), Code: code})
}

// handleSearch serves GET /api/search?q=...&category=...&page=...&limit=...
func (s *Server) handleSearch(c *gin.Context) {
	params := search.Params{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Page:     intQuery(c, "page"),
		Limit:    intQuery(c, "limit"),
	}

	result, err := s.svc.Search(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleStats serves GET /api/stats
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// handleCategories serves GET /api/categories
func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.svc.Categories()})
}

// handleAnalyze serves GET /api/analyze?top=...
func (s *Server) handleAnalyze(c *gin.Context) {
	report, err := s.svc.AnalyzeCorpus(c.Request.Context(), intQuery(c, "top"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleReindex serves POST /api/reindex. The rebuild runs in the
// background; the response carries the job ID to poll.
func (s *Server) handleReindex(c *gin.Context) {
	id := s.jobs.Submit(jobs.TypeReindex, func(ctx context.Context) (int, error) {
		return s.svc.RebuildIndex(ctx)
	})
	c.JSON(http.StatusAccepted, gin.H{
		"job_id": id,
		"status": string(jobs.StatusPending),
	})
}

// handleJob serves GET /api/jobs/:id
func (s *Server) handleJob(c *gin.Context) {
	job, err := s.jobs.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// handleHealth serves GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"index_ready": s.svc.Ready(),
	})
}

// intQuery parses an integer query parameter, zero when absent or bad.
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
