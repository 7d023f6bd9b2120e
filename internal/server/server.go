package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arxi-lab/salescope/internal/httperr"
	"github.com/arxi-lab/salescope/internal/load"
)

// Server wraps the gin engine with lifecycle management.
type Server struct {
	Engine *gin.Engine
	Addr   string
	loader *load.Loader
}

// New builds the HTTP server around the loader. The health endpoint reports
// the loader's lifecycle state; the admin reload endpoint rebuilds the store
// from the data directory and swaps it in atomically.
func New(addr string, loader *load.Loader, mode string) *Server {
	// Set Gin mode based on configuration
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(requestID())

	s := &Server{
		Engine: r,
		Addr:   addr,
		loader: loader,
	}

	r.GET("/health", s.healthHandler)
	r.POST("/api/admin/reload", s.reloadHandler)

	return s
}

// requestID tags every request with an id for log correlation, honoring an
// incoming X-Request-ID when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	state := s.loader.State()
	if state != load.StateReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"state":  state.String(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"state":  state.String(),
	})
}

func (s *Server) reloadHandler(c *gin.Context) {
	if err := s.loader.Initialize(); err != nil {
		var stageErr *load.StageError
		details := any(err.Error())
		if errors.As(err, &stageErr) {
			details = gin.H{"stage": stageErr.Stage.String(), "error": stageErr.Err.Error()}
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpLoadFailedError,
			Message:   "Reload failed",
			Details:   details,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "reloaded",
		"generation": s.loader.Generation(),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr,
		Handler: s.Engine,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
