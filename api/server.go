package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/designhawk/techcrunch/orchestrator"
	"github.com/designhawk/techcrunch/state"
	"github.com/designhawk/techcrunch/storage"
)

// Server holds the dependencies shared by all API handlers.
type Server struct {
	store    storage.Store
	pipeline *orchestrator.Pipeline
	tracker  *state.Tracker
	log      *slog.Logger
}

// NewServer creates an API server over the given store and pipeline.
func NewServer(store storage.Store, pipeline *orchestrator.Pipeline, tracker *state.Tracker, log *slog.Logger) *Server {
	return &Server{store: store, pipeline: pipeline, tracker: tracker, log: log}
}

// Router constructs a Gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.registerHealthRoutes(r)
	s.registerDigestRoutes(r)
	s.registerGenerateRoutes(r)
	return r
}
