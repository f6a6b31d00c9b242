package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/workdesk/internal/domain"
)

// WorkItemListFilters holds all supported filters for work item listing.
type WorkItemListFilters struct {
	Topics     []domain.Topic          // Required: topics the caller may see
	Statuses   []domain.WorkItemStatus // Optional: filter by status
	AssigneeID *string                 // Optional: filter by assignee
	Unassigned bool                    // Optional: show only unassigned
	Limit      int                     // Required: page size
	Offset     int                     // Optional: page offset
}

// where applies the filters shared by the page and count queries.
func (f WorkItemListFilters) where(qb sq.SelectBuilder) sq.SelectBuilder {
	qb = qb.Where(sq.Eq{"topic": f.Topics})

	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Statuses})
	}

	if f.Unassigned {
		qb = qb.Where(sq.Eq{"assignee_id": nil})
	} else if f.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assignee_id": *f.AssigneeID})
	}

	return qb
}

// List retrieves work items newest first, with the total matching count.
func (r *WorkItemRepository) List(ctx context.Context, filters WorkItemListFilters) ([]*domain.WorkItem, int, error) {
	if len(filters.Topics) == 0 {
		return []*domain.WorkItem{}, 0, nil
	}

	query, args, err := filters.where(psql.Select(workItemColumns...).From("work_items")).
		OrderBy("updated_at DESC", "created_at DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query work items: %w", err)
	}

	items, err := collect(rows, scanWorkItem)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filters.where(psql.Select("COUNT(*)").From("work_items")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count work items: %w", err)
	}

	return items, total, nil
}
