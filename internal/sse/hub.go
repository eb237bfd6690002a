package sse

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ewaste/internal/events"
	"github.com/GTDGit/ewaste/internal/metrics"
)

// DefaultBuffer is the per-browser queue length used by NewHub.
const DefaultBuffer = 16

// Client is one open /events stream.
type Client struct {
	ID     string
	Events chan []byte
}

// Hub fans inventory events out to every open listing page.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	buffer  int
	closed  bool
}

// NewHub creates a hub whose clients queue up to buffer events each.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		clients: make(map[string]*Client),
		buffer:  buffer,
	}
}

// Register adds a browser stream. It returns nil once the hub is closed.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	c := &Client{ID: clientID, Events: make(chan []byte, h.buffer)}
	h.clients[clientID] = c
	metrics.SSEClients.Set(float64(len(h.clients)))
	log.Debug().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("Listing page subscribed")
	return c
}

// Unregister removes a browser stream and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(c.Events)
	delete(h.clients, clientID)
	metrics.SSEClients.Set(float64(len(h.clients)))
	log.Debug().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("Listing page unsubscribed")
}

// Broadcast queues an event for every stream, dropping it for browsers
// whose queue is full.
func (h *Hub) Broadcast(event *events.InventoryEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal inventory event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Str("event", string(event.Event)).Msg("Listing page is behind, dropping event")
		}
	}
}

// ClientCount returns the number of open streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close ends every open stream and rejects new ones, so server shutdown is
// not held up by long-lived connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, c := range h.clients {
		close(c.Events)
		delete(h.clients, id)
	}
	metrics.SSEClients.Set(0)
}
