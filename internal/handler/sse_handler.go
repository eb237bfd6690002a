package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ewaste/internal/sse"
	"github.com/GTDGit/ewaste/internal/utils"
)

// SSEHandler streams inventory changes to open listing pages.
type SSEHandler struct {
	hub          *sse.Hub
	pingInterval time.Duration
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, pingInterval time.Duration) *SSEHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &SSEHandler{hub: hub, pingInterval: pingInterval}
}

// Stream handles GET /events
func (h *SSEHandler) Stream(c *gin.Context) {
	clientID := uuid.New().String()

	client := h.hub.Register(clientID)
	if client == nil {
		utils.Error(c, http.StatusServiceUnavailable, "SHUTTING_DOWN", "Server is shutting down")
		return
	}
	defer h.hub.Unregister(clientID)

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Msg("Live update stream started")

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent("inventory", string(data))
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	log.Info().Str("client_id", clientID).Msg("Live update stream closed")
}
