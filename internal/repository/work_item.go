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

// workItemColumns is the shared list of columns for work item queries.
var workItemColumns = []string{
	"id", "topic", "kind", "status", "priority", "target_user_id", "assignee_id",
	"payload", "created_by_user_id", "created_at", "updated_at", "done_at",
}

// WorkItemRepository handles database operations for work items.
type WorkItemRepository struct {
	pool *pgxpool.Pool
}

// NewWorkItemRepository creates a new WorkItemRepository.
func NewWorkItemRepository(pool *pgxpool.Pool) *WorkItemRepository {
	return &WorkItemRepository{pool: pool}
}

// scanWorkItem scans a single row into a WorkItem struct.
func scanWorkItem(row pgx.Row) (*domain.WorkItem, error) {
	var (
		item    domain.WorkItem
		payload []byte
	)
	err := row.Scan(
		&item.ID,
		&item.Topic,
		&item.Kind,
		&item.Status,
		&item.Priority,
		&item.TargetUserID,
		&item.AssigneeID,
		&payload,
		&item.CreatedByUserID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DoneAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("scan work item: %w", err)
	}

	item.Payload, err = domain.UnmarshalPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("work item %s: %w", item.ID, err)
	}
	return &item, nil
}

// GetByID retrieves a work item by ID.
func (r *WorkItemRepository) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query, args, err := psql.
		Select(workItemColumns...).
		From("work_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for work item: %w", err)
	}

	return scanWorkItem(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a work item by ID with FOR UPDATE lock (within transaction).
func (r *WorkItemRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.WorkItem, error) {
	query, args, err := psql.
		Select(workItemColumns...).
		From("work_items").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for work item %s: %w", id, err)
	}

	return scanWorkItem(tx.QueryRow(ctx, query, args...))
}

// Create inserts a work item within a transaction.
// Returns the item with ID, CreatedAt, and UpdatedAt populated.
func (r *WorkItemRepository) Create(ctx context.Context, tx pgx.Tx, item *domain.WorkItem) (*domain.WorkItem, error) {
	if item.Status == "" {
		item.Status = domain.StatusNew
	}
	if item.Kind == "" {
		item.Kind = domain.KindCaseCreated
	}

	payload, err := domain.MarshalPayload(item.Payload)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Insert("work_items").
		Columns(
			"topic", "kind", "status", "priority", "target_user_id",
			"assignee_id", "payload", "created_by_user_id",
		).
		Values(
			item.Topic,
			item.Kind,
			item.Status,
			item.Priority,
			item.TargetUserID,
			item.AssigneeID,
			payload,
			item.CreatedByUserID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for work item: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create work item: %w", err)
	}

	return item, nil
}

// Claim assigns an unclaimed work item to the operator.
// The update only matches while the item is still new and unassigned, so of
// several concurrent claims exactly one affects a row; the rest get ErrAlreadyAssigned.
func (r *WorkItemRepository) Claim(ctx context.Context, tx pgx.Tx, id string, operatorID string) error {
	query, args, err := psql.
		Update("work_items").
		Set("assignee_id", operatorID).
		Set("status", domain.StatusAssigned).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":          id,
			"assignee_id": nil,
			"status":      domain.StatusNew,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Claim query for work item %s: %w", id, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("claim work item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyAssigned
	}

	return nil
}

// UpdateStatus writes status and assignee with optimistic locking on the old status.
// done_at is stamped when the item enters a terminal status.
func (r *WorkItemRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id string,
	oldStatus domain.WorkItemStatus,
	newStatus domain.WorkItemStatus,
	assigneeID *string,
) error {
	query, args, err := psql.
		Update("work_items").
		Set("status", newStatus).
		Set("assignee_id", assigneeID).
		Set("updated_at", sq.Expr("NOW()")).
		Set("done_at", sq.Expr("CASE WHEN ? THEN NOW() ELSE done_at END", newStatus.IsTerminal())).
		Where(sq.Eq{
			"id":     id,
			"status": oldStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for work item %s: %w", id, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update work item status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: work item %s is no longer %s", domain.ErrInvalidTransition, id, oldStatus)
	}

	return nil
}

// Touch bumps updated_at so the item resurfaces at the top of the queue.
func (r *WorkItemRepository) Touch(ctx context.Context, tx pgx.Tx, id string) error {
	query, args, err := psql.
		Update("work_items").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Touch query for work item %s: %w", id, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("touch work item: %w", err)
	}
	return nil
}

// Delete removes a work item; its events and linked case rows cascade.
func (r *WorkItemRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	query, args, err := psql.
		Delete("work_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for work item %s: %w", id, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete work item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkItemNotFound
	}
	return nil
}
