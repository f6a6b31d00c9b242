package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// OutboxDispatcher writes notifications to the notifications table, which
// the messaging front-end polls and marks as sent.
type OutboxDispatcher struct {
	repo *repository.NotificationRepository
}

// NewOutboxDispatcher creates a new OutboxDispatcher.
func NewOutboxDispatcher(repo *repository.NotificationRepository) *OutboxDispatcher {
	return &OutboxDispatcher{repo: repo}
}

// Send enqueues the notification.
func (d *OutboxDispatcher) Send(ctx context.Context, to domain.Recipient, text string) error {
	if err := validate(to, text); err != nil {
		return err
	}

	n := &domain.Notification{Recipient: to, Text: text}
	if err := d.repo.Enqueue(ctx, n); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	slog.Debug("notification enqueued",
		"notification_id", n.ID,
		"recipient_kind", to.Kind,
		"recipient_id", to.ID,
	)
	return nil
}
