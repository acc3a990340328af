package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentfs/agentfs/internal/monitoring"
	"github.com/agentfs/agentfs/internal/types"
)

func (s *Server) newToolTimer(tool string) *monitoring.Timer {
	return monitoring.NewTimer(s.metrics, tool)
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "agentfs",
		"status":  "running",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"registry": s.registry.Stats(),
	})
}

func (s *Server) listServices(c *gin.Context) {
	var category *types.Category
	if q := c.Query("category"); q != "" {
		cat := types.Category(q)
		category = &cat
	}
	c.JSON(http.StatusOK, gin.H{"services": s.registry.List(category)})
}

func (s *Server) discoverServices(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}
	c.JSON(http.StatusOK, gin.H{"services": s.registry.Discover(req.Intent, limit)})
}

// executeService dispatches a tool invocation. Failures surface as a
// structured Result, never as a transport-level fault, so callers can branch
// on the error kind.
func (s *Server) executeService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appCtx *types.Context
	if req.SessionID != nil || req.WorkingDir != nil {
		appCtx = &types.Context{SessionID: req.SessionID, WorkingDir: req.WorkingDir}
	}

	timer := s.newToolTimer(req.ToolID)
	result, _ := s.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if result == nil {
		result = &types.Result{
			Success: false,
			Error:   &types.ErrorDetail{Kind: types.KindIOError, Message: "tool produced no result"},
		}
	}

	status := "success"
	if !result.Success {
		status = "error"
		if result.Error != nil {
			s.metrics.RecordToolError(req.ToolID, string(result.Error.Kind))
		}
	}
	timer.Stop(status)

	c.JSON(http.StatusOK, result)
}
