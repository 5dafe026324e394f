package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// startRequest mirrors the control client's payload. The engine is built
// once at process startup, so a mode that differs from the running one is
// acknowledged but does not rebuild the bot.
type startRequest struct {
	Mode   string `json:"mode"`
	Config string `json:"config"`
}

func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	// An empty body is a valid start request.
	_ = c.ShouldBindJSON(&req)

	status := s.ctrl.Status()
	if status.Running {
		c.JSON(http.StatusOK, gin.H{"status": "running"})
		return
	}
	if req.Mode != "" && req.Mode != status.Mode {
		s.logger.Warn("start requested with different mode, keeping configured mode",
			zap.String("requested", req.Mode), zap.String("configured", status.Mode))
	}
	s.ctrl.Start()
	c.JSON(http.StatusOK, gin.H{"status": "started"})
}

func (s *Server) handleStop(c *gin.Context) {
	s.ctrl.Stop()
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Status())
}

func (s *Server) handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
