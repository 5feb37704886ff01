package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NotificationMarker implements ports.NotificationMarker with SET NX.
type NotificationMarker struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewNotificationMarker creates a marker whose keys expire after ttl.
// A zero ttl keeps markers forever.
func NewNotificationMarker(client goredis.UniversalClient, ttl time.Duration) *NotificationMarker {
	return &NotificationMarker{
		client: client,
		prefix: "notified:",
		ttl:    ttl,
	}
}

// MarkNotified returns true only for the first caller per reference.
func (m *NotificationMarker) MarkNotified(ctx context.Context, reference string) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.prefix+reference, time.Now().UTC().Unix(), m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis set notified marker: %w", err)
	}
	return ok, nil
}
