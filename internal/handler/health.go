package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/pkg/circuit"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
	statusDisabled  = "disabled"
)

type HealthHandler struct {
	db           *gorm.DB
	redisClient  redis.Client
	redisBreaker *circuit.Breaker
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Breaker *circuit.Stats `json:"breaker,omitempty"`
}

func NewHealthHandler(db *gorm.DB, redisClient redis.Client, redisBreaker *circuit.Breaker) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redisClient:  redisClient,
		redisBreaker: redisBreaker,
	}
}

// HealthCheck reports the database and Redis. Only the database decides
// the overall status; Redis has an in-process fallback.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Version:   constants.AppVersion,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	response.Checks["redis"] = h.checkRedis(ctx)

	statusCode := http.StatusOK
	if response.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

// BasicHealth is the liveness probe; it touches no dependency
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    statusHealthy,
		"version":   constants.AppVersion,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.db == nil {
		return HealthCheck{
			Status:  statusUnhealthy,
			Message: "Database connection not initialized",
		}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		logger.GetLogger().Error("Failed to get DB instance for health check", zap.Error(err))
		return HealthCheck{
			Status:  statusUnhealthy,
			Message: "Failed to get database instance",
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))
		return HealthCheck{
			Status:  statusUnhealthy,
			Message: "Database ping failed: " + err.Error(),
		}
	}

	stats := sqlDB.Stats()
	return HealthCheck{
		Status:  statusHealthy,
		Message: fmt.Sprintf("open: %d, idle: %d, in use: %d", stats.OpenConnections, stats.Idle, stats.InUse),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redisClient == nil || !h.redisClient.IsEnabled() {
		return HealthCheck{
			Status:  statusDisabled,
			Message: "Redis is disabled, rate limits are per process",
		}
	}

	var breaker *circuit.Stats
	if h.redisBreaker != nil {
		stats := h.redisBreaker.Stats()
		breaker = &stats
		if h.redisBreaker.IsOpen() {
			return HealthCheck{
				Status:  statusDegraded,
				Message: "Redis circuit is open, rate limits are per process",
				Breaker: breaker,
			}
		}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{
			Status:  statusUnhealthy,
			Message: "Redis ping failed: " + err.Error(),
			Breaker: breaker,
		}
	}

	return HealthCheck{
		Status:  statusHealthy,
		Message: "Redis connection is healthy",
		Breaker: breaker,
	}
}
