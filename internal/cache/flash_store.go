package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FlashCategory tells the listing page how to style a message.
type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashInfo    FlashCategory = "info"
	FlashError   FlashCategory = "error"
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Category FlashCategory `json:"category"`
	Message  string        `json:"message"`
}

// FlashStore keeps pending flash messages per browser session in Redis.
// Key: flash:{sessionId}, a list of JSON-encoded Flash values.
type FlashStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewFlashStore creates a FlashStore. Unread messages expire after ttl.
func NewFlashStore(redis *RedisClient, ttl time.Duration) *FlashStore {
	return &FlashStore{redis: redis, ttl: ttl}
}

func (s *FlashStore) key(sessionID string) string {
	return fmt.Sprintf("flash:%s", sessionID)
}

// Add queues a message for the session.
func (s *FlashStore) Add(ctx context.Context, sessionID string, f Flash) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal flash: %w", err)
	}
	if err := s.redis.Push(ctx, s.key(sessionID), s.ttl, string(data)); err != nil {
		return fmt.Errorf("failed to store flash: %w", err)
	}
	return nil
}

// Pop returns the session's pending messages in the order they were added
// and discards them.
func (s *FlashStore) Pop(ctx context.Context, sessionID string) ([]Flash, error) {
	raw, err := s.redis.Drain(ctx, s.key(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read flashes: %w", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flash: %w", err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
