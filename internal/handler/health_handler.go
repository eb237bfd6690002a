package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog/log"

    "github.com/GTDGit/ewaste/internal/cache"
    "github.com/GTDGit/ewaste/internal/service"
    "github.com/GTDGit/ewaste/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
    inventory *service.InventoryService
    redis     *cache.RedisClient
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(inventory *service.InventoryService, redis *cache.RedisClient) *HealthHandler {
    return &HealthHandler{inventory: inventory, redis: redis}
}

// GetHealth responds with service, database and Redis status. Only the
// database is required; a Redis outage costs flash messages, not data.
func (h *HealthHandler) GetHealth(c *gin.Context) {
    ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
    defer cancel()

    dbStatus := "connected"
    if err := h.inventory.Ping(ctx); err != nil {
        log.Warn().Err(err).Msg("Health check: database unreachable")
        dbStatus = "disconnected"
    }

    redisStatus := "connected"
    if err := h.redis.Ping(ctx); err != nil {
        log.Warn().Err(err).Msg("Health check: redis unreachable")
        redisStatus = "disconnected"
    }

    status := "healthy"
    switch {
    case dbStatus != "connected":
        status = "unhealthy"
    case redisStatus != "connected":
        status = "degraded"
    }

    data := gin.H{
        "status":   status,
        "uptime":   int(time.Since(startTime).Seconds()),
        "database": gin.H{"status": dbStatus},
        "redis":    gin.H{"status": redisStatus},
    }

    if dbStatus != "connected" {
        utils.ErrorWithData(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database unreachable", data)
        return
    }
    utils.Success(c, http.StatusOK, "Service is healthy", data)
}
