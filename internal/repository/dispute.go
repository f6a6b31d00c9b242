package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/domain"
)

var disputeColumns = []string{
	"id", "work_item_id", "case_number", "status", "requester_user_id", "category",
	"plaintiff", "defendant", "claim", "amount", "evidence",
	"specialist_name", "specialist_contact", "specialist_user_id",
	"responsible_operator_id", "created_at", "updated_at",
}

// DisputeRepository handles database operations for dispute cases.
type DisputeRepository struct {
	pool *pgxpool.Pool
}

// NewDisputeRepository creates a new DisputeRepository.
func NewDisputeRepository(pool *pgxpool.Pool) *DisputeRepository {
	return &DisputeRepository{pool: pool}
}

func scanDispute(row pgx.Row) (*domain.DisputeCase, error) {
	var (
		d        domain.DisputeCase
		evidence []byte
	)
	err := row.Scan(
		&d.ID,
		&d.WorkItemID,
		&d.CaseNumber,
		&d.Status,
		&d.RequesterUserID,
		&d.Category,
		&d.Plaintiff,
		&d.Defendant,
		&d.Claim,
		&d.Amount,
		&evidence,
		&d.Specialist.Name,
		&d.Specialist.Contact,
		&d.Specialist.UserID,
		&d.ResponsibleOperatorID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("scan dispute: %w", err)
	}
	if err := json.Unmarshal(evidence, &d.Evidence); err != nil {
		return nil, fmt.Errorf("decode evidence of dispute %s: %w", d.ID, err)
	}
	return &d, nil
}

// Create inserts a dispute case. The caller supplies ID and WorkItemID.
func (r *DisputeRepository) Create(ctx context.Context, tx pgx.Tx, d *domain.DisputeCase) (*domain.DisputeCase, error) {
	if d.Status == "" {
		d.Status = domain.DisputeOpen
	}
	if d.Evidence == nil {
		d.Evidence = []domain.EvidenceFile{}
	}
	evidence, err := json.Marshal(d.Evidence)
	if err != nil {
		return nil, fmt.Errorf("encode evidence: %w", err)
	}

	query, args, err := psql.
		Insert("disputes").
		Columns(
			"id", "work_item_id", "status", "requester_user_id", "category",
			"plaintiff", "defendant", "claim", "amount", "evidence",
		).
		Values(
			d.ID, d.WorkItemID, d.Status, d.RequesterUserID, d.Category,
			d.Plaintiff, d.Defendant, d.Claim, d.Amount, evidence,
		).
		Suffix("RETURNING case_number, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for dispute: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&d.CaseNumber, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}
	return d, nil
}

// GetByID retrieves a dispute case by ID.
func (r *DisputeRepository) GetByID(ctx context.Context, id string) (*domain.DisputeCase, error) {
	query, args, err := psql.Select(disputeColumns...).From("disputes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for dispute: %w", err)
	}
	return scanDispute(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a dispute case with FOR UPDATE lock (within transaction).
func (r *DisputeRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.DisputeCase, error) {
	query, args, err := psql.
		Select(disputeColumns...).
		From("disputes").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for dispute %s: %w", id, err)
	}
	return scanDispute(tx.QueryRow(ctx, query, args...))
}

// List retrieves dispute cases newest first.
func (r *DisputeRepository) List(ctx context.Context, statuses []string, limit int) ([]*domain.DisputeCase, error) {
	query, args, err := statusFilter(psql.Select(disputeColumns...).From("disputes"), statuses).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for disputes: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query disputes: %w", err)
	}
	return collect(rows, scanDispute)
}

// Update writes every mutable field of the case.
func (r *DisputeRepository) Update(ctx context.Context, tx pgx.Tx, d *domain.DisputeCase) error {
	query, args, err := psql.
		Update("disputes").
		Set("status", d.Status).
		Set("category", d.Category).
		Set("plaintiff", d.Plaintiff).
		Set("defendant", d.Defendant).
		Set("claim", d.Claim).
		Set("amount", d.Amount).
		Set("specialist_name", d.Specialist.Name).
		Set("specialist_contact", d.Specialist.Contact).
		Set("specialist_user_id", d.Specialist.UserID).
		Set("responsible_operator_id", d.ResponsibleOperatorID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": d.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for dispute %s: %w", d.ID, err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDisputeNotFound
		}
		return fmt.Errorf("update dispute: %w", err)
	}
	return nil
}
