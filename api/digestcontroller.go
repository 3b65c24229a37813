package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/designhawk/techcrunch/storage"
	"github.com/designhawk/techcrunch/types"
)

// registerDigestRoutes registers digest read endpoints.
func (s *Server) registerDigestRoutes(r *gin.Engine) {
	r.GET("/stats", s.handleStats)

	g := r.Group("/api")
	g.GET("/digest/:date", s.handleDigest)
	g.GET("/digests", s.handleListDigests)
}

// handleDigest serves one digest by date. The literal date "latest" returns
// the most recent digest.
func (s *Server) handleDigest(c *gin.Context) {
	date := c.Param("date")

	var (
		digest types.DailyDigest
		err    error
	)
	if date == "latest" {
		digest, err = s.store.Latest(c.Request.Context())
	} else {
		if _, parseErr := time.Parse(types.DateFormat, date); parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		digest, err = s.store.Load(c.Request.Context(), date)
	}

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Digest not found"})
			return
		}
		s.log.Error("failed to load digest", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load digest"})
		return
	}

	c.JSON(http.StatusOK, digest)
}

// handleListDigests serves all stored digest dates, most recent first.
func (s *Server) handleListDigests(c *gin.Context) {
	dates, err := s.store.ListDates(c.Request.Context())
	if err != nil {
		s.log.Error("failed to list digests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list digests"})
		return
	}
	if dates == nil {
		dates = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// handleStats serves storage statistics.
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.log.Error("failed to read storage stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
