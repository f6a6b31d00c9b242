package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/domain"
)

// StatsFilters holds filters for statistics queries.
type StatsFilters struct {
	Topics      []domain.Topic
	PeriodStart time.Time
	OperatorID  *string // Optional: filter by specific operator
}

// QueueCount is the number of items of one topic in one status.
type QueueCount struct {
	Topic  domain.Topic
	Status domain.WorkItemStatus
	Count  int
}

// OperatorWorkload holds statistics for a single operator.
type OperatorWorkload struct {
	OperatorID       string
	Username         string
	Open             int
	Waiting          int
	DoneInPeriod     int
	CanceledInPeriod int
}

// StatsRepository aggregates queue statistics.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// QueueCounts groups the visible queue by topic and status.
func (r *StatsRepository) QueueCounts(ctx context.Context, topics []domain.Topic) ([]QueueCount, error) {
	if len(topics) == 0 {
		return []QueueCount{}, nil
	}

	query, args, err := psql.
		Select("topic", "status", "COUNT(*)").
		From("work_items").
		Where(sq.Eq{"topic": topics}).
		GroupBy("topic", "status").
		OrderBy("topic", "status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build QueueCounts query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query queue counts: %w", err)
	}
	defer rows.Close()

	counts := []QueueCount{}
	for rows.Next() {
		var c QueueCount
		if err := rows.Scan(&c.Topic, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan queue count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return counts, nil
}

// OperatorWorkloads retrieves per-operator workload for active operators.
func (r *StatsRepository) OperatorWorkloads(ctx context.Context, filters StatsFilters) ([]OperatorWorkload, error) {
	if len(filters.Topics) == 0 {
		return []OperatorWorkload{}, nil
	}

	qb := psql.
		Select(
			"o.id",
			"o.username",
			"COUNT(w.id) FILTER (WHERE w.status IN ('assigned', 'in_progress'))",
			"COUNT(w.id) FILTER (WHERE w.status IN ('waiting_requester', 'waiting_specialist'))",
		).
		Column(sq.Expr("COUNT(w.id) FILTER (WHERE w.status = 'done' AND w.done_at >= ?)", filters.PeriodStart)).
		Column(sq.Expr("COUNT(w.id) FILTER (WHERE w.status = 'canceled' AND w.done_at >= ?)", filters.PeriodStart)).
		From("operators o").
		LeftJoin("work_items w ON w.assignee_id = o.id AND w.topic = ANY(?)", topicStrings(filters.Topics)).
		Where(sq.Eq{"o.is_active": true}).
		GroupBy("o.id", "o.username").
		OrderBy("o.username")

	if filters.OperatorID != nil {
		qb = qb.Where(sq.Eq{"o.id": *filters.OperatorID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build OperatorWorkloads query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operator workloads: %w", err)
	}
	defer rows.Close()

	results := []OperatorWorkload{}
	for rows.Next() {
		var w OperatorWorkload
		err := rows.Scan(
			&w.OperatorID,
			&w.Username,
			&w.Open,
			&w.Waiting,
			&w.DoneInPeriod,
			&w.CanceledInPeriod,
		)
		if err != nil {
			return nil, fmt.Errorf("scan operator workload: %w", err)
		}
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return results, nil
}

func topicStrings(topics []domain.Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = string(t)
	}
	return out
}
