package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"art-marketplace/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// EmailQueue is a Redis list of JSON-encoded emails. The API pushes to the
// tail and the mailer pops from the head, so delivery is FIFO.
type EmailQueue struct {
	client goredis.UniversalClient
	key    string
}

// NewEmailQueue creates a queue on the given list key.
func NewEmailQueue(client goredis.UniversalClient, key string) *EmailQueue {
	return &EmailQueue{client: client, key: key}
}

// Enqueue implements ports.EmailQueue.
func (q *EmailQueue) Enqueue(ctx context.Context, msg domain.EmailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis rpush %s: %w", q.key, err)
	}
	return nil
}

// Dequeue implements ports.EmailSource. It blocks for up to timeout and
// returns (nil, nil) when the queue stayed empty.
func (q *EmailQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.EmailMessage, error) {
	res, err := q.client.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis blpop %s: %w", q.key, err)
	}
	// BLPOP replies with [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("redis blpop %s: unexpected reply length %d", q.key, len(res))
	}

	var msg domain.EmailMessage
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("decode email: %w", err)
	}
	return &msg, nil
}

// Len reports the number of queued emails.
func (q *EmailQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
