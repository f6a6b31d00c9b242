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

var aidColumns = []string{
	"id", "work_item_id", "status", "requester_user_id", "title", "description",
	"city", "country", "category", "help_type", "amount",
	"clarification_text", "clarification_attachment", "review_comment", "reviewed_by",
	"approved_category", "specialist_name", "specialist_contact", "specialist_user_id",
	"responsible_operator_id", "approved_at", "completed_at", "created_at", "updated_at",
}

// AidRepository handles database operations for aid requests and their confirmations.
type AidRepository struct {
	pool *pgxpool.Pool
}

// NewAidRepository creates a new AidRepository.
func NewAidRepository(pool *pgxpool.Pool) *AidRepository {
	return &AidRepository{pool: pool}
}

func scanAidRequest(row pgx.Row) (*domain.AidRequest, error) {
	var a domain.AidRequest
	err := row.Scan(
		&a.ID,
		&a.WorkItemID,
		&a.Status,
		&a.RequesterUserID,
		&a.Title,
		&a.Description,
		&a.City,
		&a.Country,
		&a.Category,
		&a.HelpType,
		&a.Amount,
		&a.ClarificationText,
		&a.ClarificationAttachment,
		&a.ReviewComment,
		&a.ReviewedBy,
		&a.ApprovedCategory,
		&a.Specialist.Name,
		&a.Specialist.Contact,
		&a.Specialist.UserID,
		&a.ResponsibleOperatorID,
		&a.ApprovedAt,
		&a.CompletedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAidRequestNotFound
		}
		return nil, fmt.Errorf("scan aid request: %w", err)
	}
	return &a, nil
}

// Create inserts an aid request. The caller supplies ID and WorkItemID.
func (r *AidRepository) Create(ctx context.Context, tx pgx.Tx, a *domain.AidRequest) (*domain.AidRequest, error) {
	if a.Status == "" {
		a.Status = domain.AidPending
	}

	query, args, err := psql.
		Insert("aid_requests").
		Columns(
			"id", "work_item_id", "status", "requester_user_id", "title", "description",
			"city", "country", "category", "help_type", "amount",
		).
		Values(
			a.ID, a.WorkItemID, a.Status, a.RequesterUserID, a.Title, a.Description,
			a.City, a.Country, a.Category, a.HelpType, a.Amount,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for aid request: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create aid request: %w", err)
	}
	return a, nil
}

// GetByID retrieves an aid request by ID.
func (r *AidRepository) GetByID(ctx context.Context, id string) (*domain.AidRequest, error) {
	query, args, err := psql.Select(aidColumns...).From("aid_requests").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for aid request: %w", err)
	}
	return scanAidRequest(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves an aid request with FOR UPDATE lock (within transaction).
func (r *AidRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.AidRequest, error) {
	query, args, err := psql.
		Select(aidColumns...).
		From("aid_requests").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for aid request %s: %w", id, err)
	}
	return scanAidRequest(tx.QueryRow(ctx, query, args...))
}

// List retrieves aid requests newest first.
func (r *AidRepository) List(ctx context.Context, statuses []string, limit int) ([]*domain.AidRequest, error) {
	query, args, err := statusFilter(psql.Select(aidColumns...).From("aid_requests"), statuses).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for aid requests: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query aid requests: %w", err)
	}
	return collect(rows, scanAidRequest)
}

// Update writes every mutable field of the aid request.
// approved_at and completed_at are stamped the first time the status reaches them.
func (r *AidRepository) Update(ctx context.Context, tx pgx.Tx, a *domain.AidRequest) error {
	query, args, err := psql.
		Update("aid_requests").
		Set("status", a.Status).
		Set("title", a.Title).
		Set("description", a.Description).
		Set("city", a.City).
		Set("country", a.Country).
		Set("category", a.Category).
		Set("help_type", a.HelpType).
		Set("amount", a.Amount).
		Set("clarification_text", a.ClarificationText).
		Set("clarification_attachment", a.ClarificationAttachment).
		Set("review_comment", a.ReviewComment).
		Set("reviewed_by", a.ReviewedBy).
		Set("approved_category", a.ApprovedCategory).
		Set("specialist_name", a.Specialist.Name).
		Set("specialist_contact", a.Specialist.Contact).
		Set("specialist_user_id", a.Specialist.UserID).
		Set("responsible_operator_id", a.ResponsibleOperatorID).
		Set("approved_at", sq.Expr("CASE WHEN ? AND approved_at IS NULL THEN NOW() ELSE approved_at END",
			a.Status == domain.AidApproved)).
		Set("completed_at", sq.Expr("CASE WHEN ? AND completed_at IS NULL THEN NOW() ELSE completed_at END",
			a.Status == domain.AidCompleted)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID}).
		Suffix("RETURNING approved_at, completed_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for aid request %s: %w", a.ID, err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.ApprovedAt, &a.CompletedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAidRequestNotFound
		}
		return fmt.Errorf("update aid request: %w", err)
	}
	return nil
}

var confirmationColumns = []string{
	"id", "aid_request_id", "requester_user_id", "text", "attachment", "status",
	"review_comment", "reviewed_by", "reviewed_at", "created_at",
}

func scanConfirmation(row pgx.Row) (*domain.Confirmation, error) {
	var c domain.Confirmation
	err := row.Scan(
		&c.ID,
		&c.AidRequestID,
		&c.RequesterUserID,
		&c.Text,
		&c.Attachment,
		&c.Status,
		&c.ReviewComment,
		&c.ReviewedBy,
		&c.ReviewedAt,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("scan confirmation: %w", err)
	}
	return &c, nil
}

// CreateConfirmation inserts a requester confirmation for an aid request.
func (r *AidRepository) CreateConfirmation(ctx context.Context, tx pgx.Tx, c *domain.Confirmation) (*domain.Confirmation, error) {
	c.Status = domain.ReviewPending

	query, args, err := psql.
		Insert("aid_confirmations").
		Columns("aid_request_id", "requester_user_id", "text", "attachment", "status").
		Values(c.AidRequestID, c.RequesterUserID, c.Text, c.Attachment, c.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateConfirmation query: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("create confirmation: %w", err)
	}
	return c, nil
}

// GetConfirmation retrieves a confirmation by ID.
func (r *AidRepository) GetConfirmation(ctx context.Context, id string) (*domain.Confirmation, error) {
	query, args, err := psql.Select(confirmationColumns...).From("aid_confirmations").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetConfirmation query: %w", err)
	}
	return scanConfirmation(r.pool.QueryRow(ctx, query, args...))
}

// GetConfirmationForUpdate retrieves a confirmation with FOR UPDATE lock (within transaction).
func (r *AidRepository) GetConfirmationForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Confirmation, error) {
	query, args, err := psql.
		Select(confirmationColumns...).
		From("aid_confirmations").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetConfirmationForUpdate query for %s: %w", id, err)
	}
	return scanConfirmation(tx.QueryRow(ctx, query, args...))
}

// ListConfirmations retrieves the confirmations of an aid request, oldest first.
func (r *AidRepository) ListConfirmations(ctx context.Context, aidRequestID string) ([]*domain.Confirmation, error) {
	query, args, err := psql.
		Select(confirmationColumns...).
		From("aid_confirmations").
		Where(sq.Eq{"aid_request_id": aidRequestID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListConfirmations query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query confirmations: %w", err)
	}
	return collect(rows, scanConfirmation)
}

// ReviewConfirmation records the review outcome of a confirmation.
func (r *AidRepository) ReviewConfirmation(ctx context.Context, tx pgx.Tx, c *domain.Confirmation) error {
	query, args, err := psql.
		Update("aid_confirmations").
		Set("status", c.Status).
		Set("review_comment", c.ReviewComment).
		Set("reviewed_by", c.ReviewedBy).
		Set("reviewed_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID, "status": domain.ReviewPending}).
		Suffix("RETURNING reviewed_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build ReviewConfirmation query for %s: %w", c.ID, err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&c.ReviewedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: confirmation %s was already reviewed", domain.ErrInvalidTransition, c.ID)
		}
		return fmt.Errorf("review confirmation: %w", err)
	}
	return nil
}
