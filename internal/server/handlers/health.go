package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-archive-app/internal/server/utils"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

// ReadinessChecker reports whether the backing object store answers.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
	Bucket() string
}

type HealthHandler struct {
	checker   ReadinessChecker
	logger    *zap.Logger
	startTime time.Time
}

func NewHealthHandler(checker ReadinessChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checker:   checker,
		logger:    logger,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness answers 503 while the object store cannot be reached.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(utils.GetContextFromGinContext(c), readinessTimeout)
	defer cancel()

	if err := h.checker.Ready(ctx); err != nil {
		h.logger.Warn("Readiness check failed",
			zap.String("bucket", h.checker.Bucket()),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "not_ready",
			Uptime: time.Since(h.startTime).String(),
			Bucket: h.checker.Bucket(),
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
		Bucket: h.checker.Bucket(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
