package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// Backend names accepted by New.
const (
	BackendOutbox = "outbox"
	BackendNSQ    = "nsq"
	BackendRedis  = "redis"
	BackendLog    = "log"
)

// Config selects and configures a notification transport.
type Config struct {
	Backend       string
	NSQDAddr      string
	NSQTopic      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisList     string
}

// LogDispatcher only logs notifications. Useful for local development.
type LogDispatcher struct{}

// Send logs the notification.
func (LogDispatcher) Send(_ context.Context, to domain.Recipient, text string) error {
	if err := validate(to, text); err != nil {
		return err
	}
	slog.Info("notification", "recipient_kind", to.Kind, "recipient_id", to.ID, "text", text)
	return nil
}

// New builds the configured dispatcher. The returned close function releases
// transport connections and is never nil.
func New(cfg Config, pool *pgxpool.Pool) (Dispatcher, func(), error) {
	switch cfg.Backend {
	case "", BackendOutbox:
		return NewOutboxDispatcher(repository.NewNotificationRepository(pool)), func() {}, nil
	case BackendNSQ:
		d, err := NewNSQDispatcher(cfg.NSQDAddr, cfg.NSQTopic)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case BackendRedis:
		d, err := NewRedisDispatcher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisList)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case BackendLog:
		return LogDispatcher{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown notification backend %q", cfg.Backend)
	}
}
