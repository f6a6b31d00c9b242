package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/domain"
)

// NotificationRepository is the outbox the messaging front-end polls.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.Recipient.Kind, &n.Recipient.ID, &n.Text, &n.CreatedAt, &n.SentAt)
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	return &n, nil
}

// Enqueue stores a notification for delivery. It runs outside any state transaction.
func (r *NotificationRepository) Enqueue(ctx context.Context, n *domain.Notification) error {
	query, args, err := psql.
		Insert("notifications").
		Columns("recipient_kind", "recipient_id", "text").
		Values(n.Recipient.Kind, n.Recipient.ID, n.Text).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// ListPending returns undelivered notifications, oldest first.
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	query, args, err := psql.
		Select("id", "recipient_kind", "recipient_id", "text", "created_at", "sent_at").
		From("notifications").
		Where(sq.Eq{"sent_at": nil}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// MarkSent records delivery of a notification.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string) error {
	query, args, err := psql.
		Update("notifications").
		Set("sent_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "sent_at": nil}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var sentID string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("notification %s: not pending", id)
		}
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}
