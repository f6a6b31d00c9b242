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

var needyColumns = []string{
	"id", "requester_user_id", "person_type", "city", "country", "reason",
	"allow_zakat", "allow_fitr", "sadaqa_only", "status",
	"review_comment", "reviewed_by", "reviewed_at", "created_at", "updated_at",
}

// NeedyRepository handles database operations for needy-person registrations.
type NeedyRepository struct {
	pool *pgxpool.Pool
}

// NewNeedyRepository creates a new NeedyRepository.
func NewNeedyRepository(pool *pgxpool.Pool) *NeedyRepository {
	return &NeedyRepository{pool: pool}
}

func scanNeedy(row pgx.Row) (*domain.NeedyRequest, error) {
	var n domain.NeedyRequest
	err := row.Scan(
		&n.ID,
		&n.RequesterUserID,
		&n.PersonType,
		&n.City,
		&n.Country,
		&n.Reason,
		&n.AllowZakat,
		&n.AllowFitr,
		&n.SadaqaOnly,
		&n.Status,
		&n.ReviewComment,
		&n.ReviewedBy,
		&n.ReviewedAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNeedyRequestNotFound
		}
		return nil, fmt.Errorf("scan needy request: %w", err)
	}
	return &n, nil
}

// Create inserts a needy registration.
func (r *NeedyRepository) Create(ctx context.Context, n *domain.NeedyRequest) (*domain.NeedyRequest, error) {
	n.Status = domain.ReviewPending

	query, args, err := psql.
		Insert("needy_requests").
		Columns(
			"requester_user_id", "person_type", "city", "country", "reason",
			"allow_zakat", "allow_fitr", "sadaqa_only", "status",
		).
		Values(
			n.RequesterUserID, n.PersonType, n.City, n.Country, n.Reason,
			n.AllowZakat, n.AllowFitr, n.SadaqaOnly, n.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for needy request: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create needy request: %w", err)
	}
	return n, nil
}

// GetByID retrieves a needy registration by ID.
func (r *NeedyRepository) GetByID(ctx context.Context, id string) (*domain.NeedyRequest, error) {
	query, args, err := psql.Select(needyColumns...).From("needy_requests").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for needy request: %w", err)
	}
	return scanNeedy(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves needy registrations newest first.
func (r *NeedyRepository) List(ctx context.Context, statuses []string, limit int) ([]*domain.NeedyRequest, error) {
	query, args, err := statusFilter(psql.Select(needyColumns...).From("needy_requests"), statuses).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for needy requests: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query needy requests: %w", err)
	}
	return collect(rows, scanNeedy)
}

// Review records a decision on a pending registration.
// Returns ErrInvalidTransition if the registration was already reviewed.
func (r *NeedyRepository) Review(ctx context.Context, n *domain.NeedyRequest) error {
	query, args, err := psql.
		Update("needy_requests").
		Set("status", n.Status).
		Set("review_comment", n.ReviewComment).
		Set("reviewed_by", n.ReviewedBy).
		Set("reviewed_at", sq.Expr("NOW()")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": n.ID, "status": domain.ReviewPending}).
		Suffix("RETURNING reviewed_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Review query for needy request %s: %w", n.ID, err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n.ReviewedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: needy request %s was already reviewed", domain.ErrInvalidTransition, n.ID)
		}
		return fmt.Errorf("review needy request: %w", err)
	}
	return nil
}
