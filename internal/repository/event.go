package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/domain"
)

// EventRepository is the append-only audit log. It deliberately has no
// update or delete methods, and the events table rejects both.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Append records an event within the transaction of the mutation it describes.
func (r *EventRepository) Append(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	query, args, err := psql.
		Insert("events").
		Columns("work_item_id", "event_type", "message", "actor_id", "old_status", "new_status").
		Values(event.WorkItemID, event.Type, event.Message, event.ActorID, event.OldStatus, event.NewStatus).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// ListByWorkItem retrieves all events for a work item in chronological order.
func (r *EventRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.Event, error) {
	query, args, err := psql.
		Select("id", "work_item_id", "event_type", "message", "actor_id", "old_status", "new_status", "created_at").
		From("events").
		Where(sq.Eq{"work_item_id": workItemID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		var event domain.Event
		err := rows.Scan(
			&event.ID,
			&event.WorkItemID,
			&event.Type,
			&event.Message,
			&event.ActorID,
			&event.OldStatus,
			&event.NewStatus,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}
