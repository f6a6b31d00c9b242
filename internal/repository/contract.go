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

var contractColumns = []string{
	"id", "work_item_id", "status", "contract_type", "title", "owner_user_id",
	"counterparty", "rendered_text", "language",
	"specialist_name", "specialist_contact", "specialist_user_id",
	"responsible_operator_id", "created_at", "updated_at",
}

// ContractRepository handles database operations for contracts.
type ContractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository creates a new ContractRepository.
func NewContractRepository(pool *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{pool: pool}
}

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var c domain.Contract
	err := row.Scan(
		&c.ID,
		&c.WorkItemID,
		&c.Status,
		&c.ContractType,
		&c.Title,
		&c.OwnerUserID,
		&c.Counterparty,
		&c.RenderedText,
		&c.Language,
		&c.Specialist.Name,
		&c.Specialist.Contact,
		&c.Specialist.UserID,
		&c.ResponsibleOperatorID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContractNotFound
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	return &c, nil
}

// Create inserts a contract. The caller supplies ID and WorkItemID.
func (r *ContractRepository) Create(ctx context.Context, tx pgx.Tx, c *domain.Contract) (*domain.Contract, error) {
	if c.Status == "" {
		c.Status = domain.ContractDraft
	}
	if c.Language == "" {
		c.Language = "en"
	}

	query, args, err := psql.
		Insert("contracts").
		Columns(
			"id", "work_item_id", "status", "contract_type", "title",
			"owner_user_id", "counterparty", "rendered_text", "language",
		).
		Values(
			c.ID, c.WorkItemID, c.Status, c.ContractType, c.Title,
			c.OwnerUserID, c.Counterparty, c.RenderedText, c.Language,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for contract: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return c, nil
}

// GetByID retrieves a contract by ID.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query, args, err := psql.Select(contractColumns...).From("contracts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for contract: %w", err)
	}
	return scanContract(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a contract with FOR UPDATE lock (within transaction).
func (r *ContractRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Contract, error) {
	query, args, err := psql.
		Select(contractColumns...).
		From("contracts").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for contract %s: %w", id, err)
	}
	return scanContract(tx.QueryRow(ctx, query, args...))
}

// List retrieves contracts newest first.
func (r *ContractRepository) List(ctx context.Context, statuses []string, limit int) ([]*domain.Contract, error) {
	query, args, err := statusFilter(psql.Select(contractColumns...).From("contracts"), statuses).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for contracts: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	return collect(rows, scanContract)
}

// Update writes every mutable field of the contract.
func (r *ContractRepository) Update(ctx context.Context, tx pgx.Tx, c *domain.Contract) error {
	query, args, err := psql.
		Update("contracts").
		Set("status", c.Status).
		Set("title", c.Title).
		Set("counterparty", c.Counterparty).
		Set("rendered_text", c.RenderedText).
		Set("language", c.Language).
		Set("specialist_name", c.Specialist.Name).
		Set("specialist_contact", c.Specialist.Contact).
		Set("specialist_user_id", c.Specialist.UserID).
		Set("responsible_operator_id", c.ResponsibleOperatorID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for contract %s: %w", c.ID, err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrContractNotFound
		}
		return fmt.Errorf("update contract: %w", err)
	}
	return nil
}
