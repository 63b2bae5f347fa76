package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"SkillTracker/internal/config"
	"SkillTracker/internal/metrics"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h *Handler, m *metrics.Metrics, limits config.RateLimitConfig, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	if m != nil {
		router.Use(MetricsMiddleware(m))
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	api.GET("/health", h.Health)

	limited := api.Group("")
	limited.Use(RateLimiter(limits.Requests, limits.Window))
	{
		limited.POST("/points", h.Points)
		limited.GET("/points/*encodedURL", h.PointsByPath)
		limited.POST("/trackwithbuddy", h.TrackWithBuddy)
	}

	return router
}
