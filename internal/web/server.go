// Package web exposes the bot's control surface over HTTP: start and stop
// the run loop and read a status snapshot.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradeloop/internal/engine"
)

// Server wraps the gin engine around a single bot controller.
type Server struct {
	ctrl   *engine.Controller
	logger *zap.Logger
	srv    *http.Server
}

func NewServer(listen string, ctrl *engine.Controller, logger *zap.Logger) *Server {
	s := &Server{ctrl: ctrl, logger: logger}
	s.srv = &http.Server{
		Addr:    listen,
		Handler: s.Routes(),
	}
	return s
}

// Routes builds the router. Exposed separately so tests can drive the
// handlers through httptest without binding a port.
func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery(), s.requestLogger())

	g.GET("/ping", s.handlePing)

	api := g.Group("/api")
	{
		api.POST("/start", s.handleStart)
		api.POST("/stop", s.handleStop)
		api.GET("/status", s.handleStatus)
	}
	return g
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.logger.Info("control server listening", zap.String("addr", s.srv.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("control server shutdown", zap.Error(err))
		return err
	}
	s.logger.Info("control server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client", c.ClientIP()),
			zap.Duration("latency", time.Since(start)))
	}
}
