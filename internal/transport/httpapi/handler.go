package httpapi

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"SkillTracker/internal/domain"
)

// ProgressService is the use case surface the handlers need.
type ProgressService interface {
	Points(ctx context.Context, rawURL string) (domain.Summary, error)
	TrackWithBuddy(ctx context.Context, rawURL, lastDate string) (domain.Summary, error)
}

// Handler serves the progress endpoints.
type Handler struct {
	service ProgressService
	logger  *slog.Logger
}

// NewHandler wires the use case into gin handlers; log may be nil.
func NewHandler(service ProgressService, log *slog.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

type pointsRequest struct {
	URL string `json:"url" binding:"required"`
}

type trackRequest struct {
	URL      string `json:"url" binding:"required"`
	LastDate string `json:"lastdate" binding:"required"`
}

// Points handles POST /api/points with body {"url": "..."}.
func (h *Handler) Points(c *gin.Context) {
	var req pointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "No URL provided in the request body")
		return
	}

	summary, err := h.service.Points(c.Request.Context(), req.URL)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, summary)
}

// PointsByPath handles GET /api/points/*encodedURL where the profile URL is
// percent-encoded into the path.
func (h *Handler) PointsByPath(c *gin.Context) {
	raw := strings.TrimPrefix(c.Param("encodedURL"), "/")
	if q := c.Request.URL.RawQuery; q != "" {
		raw += "?" + q
	}

	summary, err := h.service.Points(c.Request.Context(), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, summary)
}

// TrackWithBuddy handles POST /api/trackwithbuddy with body {"url", "lastdate"}.
func (h *Handler) TrackWithBuddy(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Both URL and lastdate are required")
		return
	}

	summary, err := h.service.TrackWithBuddy(c.Request.Context(), req.URL, req.LastDate)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, summary)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 && h.logger != nil {
		h.logger.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	} else if h.logger != nil {
		h.logger.Info("request rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	writeError(c, err)
}
