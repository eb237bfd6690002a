package middleware

import (
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/GTDGit/ewaste/internal/utils"
)

// LoggingMiddleware logs basic request/response details and injects a request_id into context.
func LoggingMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        path := c.Request.URL.Path

        requestID := uuid.New().String()[:8]
        c.Set(utils.RequestIDKey, requestID)

        c.Next()

        // Live-update streams are logged when they close, which can be hours later.
        latency := time.Since(start)
        evt := log.Info()
        if c.Writer.Status() >= 500 {
            evt = log.Error()
        }
        if len(c.Errors) > 0 {
            evt = evt.Str("errors", c.Errors.String())
        }

        evt.
            Str("request_id", requestID).
            Str("method", c.Request.Method).
            Str("path", path).
            Int("status", c.Writer.Status()).
            Dur("latency", latency).
            Str("ip", c.ClientIP()).
            Str("session_id", c.GetString(SessionIDKey)).
            Msg("HTTP Request")
    }
}
