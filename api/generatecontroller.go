package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerGenerateRoutes registers generation trigger and status endpoints.
func (s *Server) registerGenerateRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/generate", s.handleGenerate)
	g.GET("/status", s.handleLatestStatus)
	g.GET("/status/:id", s.handleRunStatus)
}

// handleGenerate starts a digest generation run asynchronously and returns
// 202 Accepted with the run ID to poll.
func (s *Server) handleGenerate(c *gin.Context) {
	runID := s.tracker.Start()

	go func() {
		// The run must outlive the request; the tracker records the outcome.
		if _, err := s.pipeline.GenerateDigest(context.Background(), runID); err != nil {
			s.log.Error("digest generation failed", "run_id", runID, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "generation started", "run_id": runID})
}

// handleRunStatus serves the status of one generation run.
func (s *Server) handleRunStatus(c *gin.Context) {
	status, ok := s.tracker.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// handleLatestStatus serves the status of the most recently started run.
func (s *Server) handleLatestStatus(c *gin.Context) {
	status, ok := s.tracker.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no runs yet"})
		return
	}
	c.JSON(http.StatusOK, status)
}
