package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// ContractService is the case registry for contracts drafted for members.
type ContractService struct {
	*core
	repo *repository.ContractRepository
}

// CreateContractInput holds the fields of a new contract draft.
type CreateContractInput struct {
	OwnerUserID  string
	ContractType string
	Title        string
	Counterparty string
	RenderedText string
	Language     string
	Priority     *int
}

// ContractPatch holds optional contract changes. At least one must be set.
type ContractPatch struct {
	Status       *domain.ContractStatus
	Title        *string
	Counterparty *string
	RenderedText *string
	Language     *string
	Specialist   SpecialistPatch
}

func (p ContractPatch) caseFieldsEmpty() bool {
	return p.Status == nil && p.Title == nil && p.Counterparty == nil &&
		p.RenderedText == nil && p.Language == nil
}

// Create stores a contract draft together with its work item.
func (s *ContractService) Create(ctx context.Context, actor domain.Actor, in CreateContractInput) (*domain.Contract, error) {
	if err := s.guard.Require(actor, domain.TopicContract, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("owner_user_id", in.OwnerUserID); err != nil {
		return nil, err
	}
	if err := requireField("contract_type", in.ContractType); err != nil {
		return nil, err
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	caseID := uuid.NewString()
	item, err := s.openItem(ctx, tx, domain.TopicContract, caseID, in.OwnerUserID, in.Priority)
	if err != nil {
		return nil, err
	}

	c := &domain.Contract{
		ID:           caseID,
		WorkItemID:   item.ID,
		Status:       domain.ContractDraft,
		ContractType: in.ContractType,
		Title:        in.Title,
		OwnerUserID:  in.OwnerUserID,
		Counterparty: in.Counterparty,
		RenderedText: in.RenderedText,
		Language:     in.Language,
	}
	if _, err := s.repo.Create(ctx, tx, c); err != nil {
		return nil, err
	}

	if err := s.commitCreated(ctx, tx, item, actor, fmt.Sprintf("%s contract drafted", c.ContractType)); err != nil {
		return nil, err
	}

	slog.Info("contract created",
		"contract_id", c.ID,
		"work_item_id", item.ID,
		"contract_type", c.ContractType,
		"actor_id", actor.ID,
	)

	return c, nil
}

// Get returns a contract the actor may view.
func (s *ContractService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Contract, error) {
	if err := s.guard.Require(actor, domain.TopicContract, domain.ActionView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns contracts newest first, optionally filtered by status.
func (s *ContractService) List(ctx context.Context, actor domain.Actor, statuses []string, limit int) ([]*domain.Contract, error) {
	if err := s.guard.Require(actor, domain.TopicContract, domain.ActionView); err != nil {
		return nil, err
	}
	if err := validateCaseStatuses(domain.TopicContract, statuses); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, statuses, clampLimit(limit))
}

// Patch edits a contract and mirrors a status change onto its work item.
func (s *ContractService) Patch(ctx context.Context, actor domain.Actor, id string, p ContractPatch) (*domain.Contract, error) {
	if p.caseFieldsEmpty() && p.Specialist.isEmpty() {
		return nil, domain.ErrNoUpdates
	}
	if p.Status != nil && !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q is not a contract status", domain.ErrInvalidStatus, *p.Status)
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

	c, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := c.Status
	var newCaseStatus string
	if p.Status != nil && *p.Status != oldStatus {
		if !oldStatus.CanTransitionTo(*p.Status) {
			return nil, fmt.Errorf("%w: contract %s -> %s", domain.ErrInvalidTransition, oldStatus, *p.Status)
		}
		c.Status = *p.Status
		newCaseStatus = string(c.Status)
	}
	setString(&c.Title, p.Title)
	setString(&c.Counterparty, p.Counterparty)
	setString(&c.RenderedText, p.RenderedText)
	setString(&c.Language, p.Language)
	p.Specialist.apply(&c.Specialist)

	if err := s.repo.Update(ctx, tx, c); err != nil {
		return nil, err
	}

	message := "contract updated"
	if newCaseStatus != "" {
		message = fmt.Sprintf("contract %s -> %s", oldStatus, c.Status)
	}
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, newCaseStatus); err != nil {
		return nil, err
	}

	slog.Info("contract updated",
		"contract_id", c.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", c.Status,
	)

	return c, nil
}

// AssignResponsible makes operatorID responsible for the contract.
func (s *ContractService) AssignResponsible(ctx context.Context, actor domain.Actor, id string, operatorID string) (*domain.Contract, error) {
	if err := s.checkResponsible(ctx, actor, domain.TopicContract, operatorID); err != nil {
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
	c, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	c.ResponsibleOperatorID = &operatorID
	if err := s.repo.Update(ctx, tx, c); err != nil {
		return nil, err
	}

	if err := s.takeResponsibility(ctx, tx, item, operatorID, actor); err != nil {
		return nil, err
	}

	slog.Info("contract responsible assigned",
		"contract_id", id,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"assignee_id", operatorID,
	)

	if operatorID != actor.ID {
		text := fmt.Sprintf("You are now responsible for contract %q.", c.Title)
		_, _ = s.notify(ctx, item.ID, &actor.ID, domain.OperatorRecipient(operatorID), text)
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a contract together with its work item and history.
// Elevated only.
func (s *ContractService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.guard.Require(actor, domain.TopicContract, domain.ActionDelete); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if _, err := s.workItems.GetByIDForUpdate(ctx, tx, current.WorkItemID); err != nil {
		return err
	}
	if err := s.workItems.Delete(ctx, tx, current.WorkItemID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("contract deleted",
		"contract_id", id,
		"work_item_id", current.WorkItemID,
		"actor_id", actor.ID,
	)

	return nil
}

func (s *ContractService) syncFromItem(
	ctx context.Context,
	tx pgx.Tx,
	caseID string,
	itemStatus domain.WorkItemStatus,
) (string, error) {
	c, err := s.repo.GetByIDForUpdate(ctx, tx, caseID)
	if err != nil {
		return "", err
	}
	next, ok := domain.CaseStatusForItem(domain.TopicContract, string(c.Status), itemStatus)
	if !ok {
		return "", nil
	}
	c.Status = domain.ContractStatus(next)
	if err := s.repo.Update(ctx, tx, c); err != nil {
		return "", err
	}
	return next, nil
}
