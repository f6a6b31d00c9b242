package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/evidence"
	"github.com/mtlprog/workdesk/internal/repository"
)

// SpecialistPatch carries optional specialist contact changes.
type SpecialistPatch struct {
	Name    *string
	Contact *string
	UserID  *string
}

func (p SpecialistPatch) isEmpty() bool {
	return p.Name == nil && p.Contact == nil && p.UserID == nil
}

func (p SpecialistPatch) apply(s *domain.SpecialistContact) {
	if p.Name != nil {
		s.Name = p.Name
	}
	if p.Contact != nil {
		s.Contact = p.Contact
	}
	if p.UserID != nil {
		s.UserID = p.UserID
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// DisputeService is the case registry for court disputes.
type DisputeService struct {
	*core
	repo     *repository.DisputeRepository
	evidence evidence.Store
}

// CreateDisputeInput holds the fields of a new dispute.
type CreateDisputeInput struct {
	RequesterUserID string
	Category        string
	Plaintiff       string
	Defendant       string
	Claim           string
	Amount          *int64
	Evidence        []domain.EvidenceFile
	Priority        *int
}

// DisputePatch holds optional dispute changes. At least one must be set.
type DisputePatch struct {
	Status     *domain.DisputeStatus
	Category   *string
	Plaintiff  *string
	Defendant  *string
	Claim      *string
	Amount     *int64
	Specialist SpecialistPatch
}

func (p DisputePatch) caseFieldsEmpty() bool {
	return p.Status == nil && p.Category == nil && p.Plaintiff == nil &&
		p.Defendant == nil && p.Claim == nil && p.Amount == nil
}

// Create opens a dispute together with its work item.
func (s *DisputeService) Create(ctx context.Context, actor domain.Actor, in CreateDisputeInput) (*domain.DisputeCase, error) {
	if err := s.guard.Require(actor, domain.TopicDispute, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("requester_user_id", in.RequesterUserID); err != nil {
		return nil, err
	}
	if err := requireField("claim", in.Claim); err != nil {
		return nil, err
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}
	for i, f := range in.Evidence {
		if f.FileID == "" {
			return nil, fmt.Errorf("%w: evidence %d has no file_id", domain.ErrValidation, i)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	caseID := uuid.NewString()
	item, err := s.openItem(ctx, tx, domain.TopicDispute, caseID, in.RequesterUserID, in.Priority)
	if err != nil {
		return nil, err
	}

	d := &domain.DisputeCase{
		ID:              caseID,
		WorkItemID:      item.ID,
		Status:          domain.DisputeOpen,
		RequesterUserID: in.RequesterUserID,
		Category:        in.Category,
		Plaintiff:       in.Plaintiff,
		Defendant:       in.Defendant,
		Claim:           in.Claim,
		Amount:          in.Amount,
		Evidence:        in.Evidence,
	}
	if _, err := s.repo.Create(ctx, tx, d); err != nil {
		return nil, err
	}

	if err := s.commitCreated(ctx, tx, item, actor, fmt.Sprintf("dispute %s opened", d.CaseNumber)); err != nil {
		return nil, err
	}

	slog.Info("dispute created",
		"dispute_id", d.ID,
		"case_number", d.CaseNumber,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
	)

	return d, nil
}

// Get returns a dispute the actor may view.
func (s *DisputeService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.DisputeCase, error) {
	if err := s.guard.Require(actor, domain.TopicDispute, domain.ActionView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns disputes newest first, optionally filtered by status.
func (s *DisputeService) List(ctx context.Context, actor domain.Actor, statuses []string, limit int) ([]*domain.DisputeCase, error) {
	if err := s.guard.Require(actor, domain.TopicDispute, domain.ActionView); err != nil {
		return nil, err
	}
	if err := validateCaseStatuses(domain.TopicDispute, statuses); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, statuses, clampLimit(limit))
}

// Patch edits a dispute. A status change moves the work item through the
// inverse sync hook in the same transaction.
func (s *DisputeService) Patch(ctx context.Context, actor domain.Actor, id string, p DisputePatch) (*domain.DisputeCase, error) {
	if p.caseFieldsEmpty() && p.Specialist.isEmpty() {
		return nil, domain.ErrNoUpdates
	}
	if p.Status != nil && !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q is not a dispute status", domain.ErrInvalidStatus, *p.Status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	item, err := s.lockCaseItem(ctx, tx, current.WorkItemID, actor, p.caseFieldsEmpty())
	if err != nil {
		return nil, err
	}

	d, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := d.Status
	var newCaseStatus string
	if p.Status != nil && *p.Status != oldStatus {
		if !oldStatus.CanTransitionTo(*p.Status) {
			return nil, fmt.Errorf("%w: dispute %s -> %s", domain.ErrInvalidTransition, oldStatus, *p.Status)
		}
		d.Status = *p.Status
		newCaseStatus = string(d.Status)
	}
	setString(&d.Category, p.Category)
	setString(&d.Plaintiff, p.Plaintiff)
	setString(&d.Defendant, p.Defendant)
	setString(&d.Claim, p.Claim)
	if p.Amount != nil {
		d.Amount = p.Amount
	}
	p.Specialist.apply(&d.Specialist)

	if err := s.repo.Update(ctx, tx, d); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("dispute %s updated", d.CaseNumber)
	if newCaseStatus != "" {
		message = fmt.Sprintf("dispute %s: %s -> %s", d.CaseNumber, oldStatus, d.Status)
	}
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, newCaseStatus); err != nil {
		return nil, err
	}

	slog.Info("dispute updated",
		"dispute_id", d.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", d.Status,
	)

	return d, nil
}

// AssignResponsible makes operatorID responsible for the dispute and claims
// its work item for them if it is still unclaimed.
func (s *DisputeService) AssignResponsible(ctx context.Context, actor domain.Actor, id string, operatorID string) (*domain.DisputeCase, error) {
	if err := s.checkResponsible(ctx, actor, domain.TopicDispute, operatorID); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	item, err := s.workItems.GetByIDForUpdate(ctx, tx, current.WorkItemID)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	d.ResponsibleOperatorID = &operatorID
	if err := s.repo.Update(ctx, tx, d); err != nil {
		return nil, err
	}

	if err := s.takeResponsibility(ctx, tx, item, operatorID, actor); err != nil {
		return nil, err
	}

	slog.Info("dispute responsible assigned",
		"dispute_id", id,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"assignee_id", operatorID,
	)

	if operatorID != actor.ID {
		text := fmt.Sprintf("You are now responsible for dispute %s.", d.CaseNumber)
		_, _ = s.notify(ctx, item.ID, &actor.ID, domain.OperatorRecipient(operatorID), text)
	}

	return s.repo.GetByID(ctx, id)
}

// OpenEvidence streams the evidence file at index from object storage.
func (s *DisputeService) OpenEvidence(
	ctx context.Context,
	actor domain.Actor,
	id string,
	index int,
) (*evidence.Object, domain.EvidenceFile, error) {
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, domain.EvidenceFile{}, err
	}
	if index < 0 || index >= len(d.Evidence) {
		return nil, domain.EvidenceFile{}, fmt.Errorf("%w: dispute %s has no evidence #%d", domain.ErrEvidenceNotFound, id, index)
	}

	file := d.Evidence[index]
	obj, err := s.evidence.Open(ctx, file.FileID)
	if err != nil {
		return nil, file, err
	}
	if obj.ContentType == "" {
		obj.ContentType = file.MimeType
	}
	return obj, file, nil
}

func (s *DisputeService) syncFromItem(
	ctx context.Context,
	tx pgx.Tx,
	caseID string,
	itemStatus domain.WorkItemStatus,
) (string, error) {
	d, err := s.repo.GetByIDForUpdate(ctx, tx, caseID)
	if err != nil {
		return "", err
	}
	next, ok := domain.CaseStatusForItem(domain.TopicDispute, string(d.Status), itemStatus)
	if !ok {
		return "", nil
	}
	d.Status = domain.DisputeStatus(next)
	if err := s.repo.Update(ctx, tx, d); err != nil {
		return "", err
	}
	return next, nil
}
