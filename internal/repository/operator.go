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

var operatorColumns = []string{"id", "username", "contact_id", "is_active", "created_at"}

// OperatorRepository reads the operator registry. Operators are provisioned
// by the external auth system; this service only validates against them.
type OperatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository creates a new OperatorRepository.
func NewOperatorRepository(pool *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{pool: pool}
}

func scanOperator(row pgx.Row) (*domain.Operator, error) {
	var operator domain.Operator
	err := row.Scan(
		&operator.ID,
		&operator.Username,
		&operator.ContactID,
		&operator.IsActive,
		&operator.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("scan operator: %w", err)
	}
	return &operator, nil
}

// GetByID retrieves an operator by ID.
func (r *OperatorRepository) GetByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	query, args, err := psql.
		Select(operatorColumns...).
		From("operators").
		Where(sq.Eq{"id": operatorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return scanOperator(r.pool.QueryRow(ctx, query, args...))
}

// ListActive returns every active operator ordered by username.
func (r *OperatorRepository) ListActive(ctx context.Context) ([]*domain.Operator, error) {
	query, args, err := psql.
		Select(operatorColumns...).
		From("operators").
		Where(sq.Eq{"is_active": true}).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operators: %w", err)
	}
	return collect(rows, scanOperator)
}
