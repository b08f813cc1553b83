package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks the cache store connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	cache Pinger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness. The cache store is advisory (the engine fails
// open without it), so its state is reported but never fails the probe.
func (h *HealthHandler) Ready(c *gin.Context) {
	cacheStatus := "ok"
	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			cacheStatus = "degraded"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": cacheStatus})
}
