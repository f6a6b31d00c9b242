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

var admissionColumns = []string{
	"id", "work_item_id", "status", "applicant_user_id", "full_name", "country", "city",
	"education_place", "education_completed", "education_details", "knowledge_areas",
	"experience", "meeting_type", "meeting_link", "meeting_at", "decision_comment",
	"decided_by", "assigned_roles", "responsible_operator_id", "created_at", "updated_at",
}

// AdmissionRepository handles database operations for admission applications.
type AdmissionRepository struct {
	pool *pgxpool.Pool
}

// NewAdmissionRepository creates a new AdmissionRepository.
func NewAdmissionRepository(pool *pgxpool.Pool) *AdmissionRepository {
	return &AdmissionRepository{pool: pool}
}

func scanAdmission(row pgx.Row) (*domain.AdmissionApplication, error) {
	var (
		a     domain.AdmissionApplication
		roles []string
	)
	err := row.Scan(
		&a.ID,
		&a.WorkItemID,
		&a.Status,
		&a.ApplicantUserID,
		&a.FullName,
		&a.Country,
		&a.City,
		&a.EducationPlace,
		&a.EducationCompleted,
		&a.EducationDetails,
		&a.KnowledgeAreas,
		&a.Experience,
		&a.MeetingType,
		&a.MeetingLink,
		&a.MeetingAt,
		&a.DecisionComment,
		&a.DecidedBy,
		&roles,
		&a.ResponsibleOperatorID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("scan admission: %w", err)
	}
	a.AssignedRoles = make([]domain.Role, len(roles))
	for i, role := range roles {
		a.AssignedRoles[i] = domain.Role(role)
	}
	return &a, nil
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}

// Create inserts an admission application. The caller supplies ID and WorkItemID.
func (r *AdmissionRepository) Create(ctx context.Context, tx pgx.Tx, a *domain.AdmissionApplication) (*domain.AdmissionApplication, error) {
	if a.Status == "" {
		a.Status = domain.AdmissionPendingIntro
	}
	if a.KnowledgeAreas == nil {
		a.KnowledgeAreas = []string{}
	}
	a.AssignedRoles = []domain.Role{}

	query, args, err := psql.
		Insert("admissions").
		Columns(
			"id", "work_item_id", "status", "applicant_user_id", "full_name", "country", "city",
			"education_place", "education_completed", "education_details", "knowledge_areas", "experience",
		).
		Values(
			a.ID, a.WorkItemID, a.Status, a.ApplicantUserID, a.FullName, a.Country, a.City,
			a.EducationPlace, a.EducationCompleted, a.EducationDetails, a.KnowledgeAreas, a.Experience,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for admission: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create admission: %w", err)
	}
	return a, nil
}

// GetByID retrieves an admission application by ID.
func (r *AdmissionRepository) GetByID(ctx context.Context, id string) (*domain.AdmissionApplication, error) {
	query, args, err := psql.Select(admissionColumns...).From("admissions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for admission: %w", err)
	}
	return scanAdmission(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves an admission application with FOR UPDATE lock (within transaction).
func (r *AdmissionRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.AdmissionApplication, error) {
	query, args, err := psql.
		Select(admissionColumns...).
		From("admissions").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for admission %s: %w", id, err)
	}
	return scanAdmission(tx.QueryRow(ctx, query, args...))
}

// List retrieves admission applications newest first.
func (r *AdmissionRepository) List(ctx context.Context, statuses []string, limit int) ([]*domain.AdmissionApplication, error) {
	query, args, err := statusFilter(psql.Select(admissionColumns...).From("admissions"), statuses).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for admissions: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query admissions: %w", err)
	}
	return collect(rows, scanAdmission)
}

// Update writes every mutable field of the application.
func (r *AdmissionRepository) Update(ctx context.Context, tx pgx.Tx, a *domain.AdmissionApplication) error {
	query, args, err := psql.
		Update("admissions").
		Set("status", a.Status).
		Set("full_name", a.FullName).
		Set("country", a.Country).
		Set("city", a.City).
		Set("education_place", a.EducationPlace).
		Set("education_completed", a.EducationCompleted).
		Set("education_details", a.EducationDetails).
		Set("knowledge_areas", a.KnowledgeAreas).
		Set("experience", a.Experience).
		Set("meeting_type", a.MeetingType).
		Set("meeting_link", a.MeetingLink).
		Set("meeting_at", a.MeetingAt).
		Set("decision_comment", a.DecisionComment).
		Set("decided_by", a.DecidedBy).
		Set("assigned_roles", roleStrings(a.AssignedRoles)).
		Set("responsible_operator_id", a.ResponsibleOperatorID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for admission %s: %w", a.ID, err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAdmissionNotFound
		}
		return fmt.Errorf("update admission: %w", err)
	}
	return nil
}
