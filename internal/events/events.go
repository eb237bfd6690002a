package events

import (
	"time"

	"github.com/GTDGit/ewaste/internal/models"
)

// EventType names an inventory change.
type EventType string

const (
	EventProductCreated EventType = "product.created"
	EventProductUpdated EventType = "product.updated"
	EventProductDeleted EventType = "product.deleted"
)

// InventoryEvent is the payload published for every committed change.
// Deleted events only carry the id.
type InventoryEvent struct {
	Event       EventType `json:"event"`
	ID          int64     `json:"id"`
	Description string    `json:"description,omitempty"`
	Quantity    *int      `json:"quantity,omitempty"`
	Status      string    `json:"status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewProductEvent builds the event for a created or updated product.
func NewProductEvent(eventType EventType, p *models.Product) *InventoryEvent {
	qty := p.Quantity
	return &InventoryEvent{
		Event:       eventType,
		ID:          p.ID,
		Description: p.Description,
		Quantity:    &qty,
		Status:      p.Status,
		Timestamp:   time.Now().UTC(),
	}
}

// NewDeletedEvent builds the event for a removed product.
func NewDeletedEvent(id int64) *InventoryEvent {
	return &InventoryEvent{
		Event:     EventProductDeleted,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// Notifier is the interface services use to emit inventory events.
// Implementations must not block the caller.
type Notifier interface {
	Notify(event *InventoryEvent)
}

// MultiNotifier fans an event out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(event *InventoryEvent) {
	for _, n := range m {
		n.Notify(event)
	}
}

// NopNotifier is a no-op implementation for when no sink is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(*InventoryEvent) {}
