package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v7"

	"github.com/mtlprog/workdesk/internal/domain"
)

// RedisDispatcher pushes notifications onto a Redis list consumed by the front-end.
type RedisDispatcher struct {
	client *redis.Client
	list   string
}

// NewRedisDispatcher connects to Redis and verifies the connection.
func NewRedisDispatcher(address, password string, db int, list string) (*RedisDispatcher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping().Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", address, err)
	}
	return &RedisDispatcher{client: client, list: list}, nil
}

// Send appends the notification to the list.
func (d *RedisDispatcher) Send(ctx context.Context, to domain.Recipient, text string) error {
	if err := validate(to, text); err != nil {
		return err
	}

	body, err := encode(to, text)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	if err := d.client.WithContext(ctx).RPush(d.list, body).Err(); err != nil {
		return fmt.Errorf("%w: push to %s: %w", domain.ErrNotificationFailed, d.list, err)
	}
	return nil
}

// Close closes the Redis client.
func (d *RedisDispatcher) Close() {
	d.client.Close()
}
