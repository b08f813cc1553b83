// Package router assembles the gin engine and route table.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/interfaces/http/handler"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Evaluate  *handler.EvaluateHandler
	StepUp    *handler.StepUpHandler
	Blacklist *handler.BlacklistHandler
	Health    *handler.HealthHandler
}

// New builds the HTTP router.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.GET("/health/live", h.Health.Live)
	r.GET("/health/ready", h.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/risk/evaluate", h.Evaluate.Evaluate)
		v1.POST("/risk/otp/:transaction_id/verify", h.StepUp.Verify)
		v1.POST("/risk/otp/:transaction_id/resend", h.StepUp.Resend)

		v1.POST("/blacklist", h.Blacklist.Add)
		v1.GET("/blacklist/:type/:value", h.Blacklist.Check)
		v1.DELETE("/blacklist/:type/:value", h.Blacklist.Remove)
	}

	return r
}

// requestLogger logs one structured line per request. Probe endpoints are
// skipped to keep the log usable.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health/live" || path == "/health/ready" || path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
