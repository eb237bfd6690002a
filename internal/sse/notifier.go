package sse

import (
	"github.com/GTDGit/ewaste/internal/events"
)

// HubNotifier implements events.Notifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(event *events.InventoryEvent) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(event)
}
