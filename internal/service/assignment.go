package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mtlprog/workdesk/internal/domain"
)

// AssignmentCoordinator claims and reassigns work items.
type AssignmentCoordinator struct {
	*core
}

// Claim gives an unassigned new item to the actor. Of several concurrent
// claims exactly one wins; the others get ErrAlreadyAssigned.
func (s *AssignmentCoordinator) Claim(ctx context.Context, actor domain.Actor, id string) (*domain.Event, error) {
	if err := s.requireOperator(ctx, actor); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	item, err := s.workItems.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Require(actor, item.Topic, domain.ActionClaim); err != nil {
		return nil, err
	}

	if !item.IsClaimable() {
		return nil, fmt.Errorf("%w: work item %s is %s", domain.ErrAlreadyAssigned, id, item.Status)
	}

	if err := s.workItems.Claim(ctx, tx, id, actor.ID); err != nil {
		return nil, err
	}

	oldStatus := item.Status
	newStatus := domain.StatusAssigned
	item.Status = newStatus
	item.AssigneeID = &actor.ID

	caseStatus, err := s.syncCase(ctx, tx, item, newStatus)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		WorkItemID: id,
		Type:       domain.EventTypeAssigned,
		Message:    assignedMessage(actor.ID, caseStatus),
		ActorID:    &actor.ID,
		OldStatus:  &oldStatus,
		NewStatus:  &newStatus,
	}
	if err := s.appendAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("work item claimed",
		"work_item_id", id,
		"actor_id", actor.ID,
		"case_status", caseStatus,
		"event_id", event.ID,
	)

	return event, nil
}

// Reassign moves a non-terminal item to another operator. Elevated only.
// A new item becomes assigned. The new assignee is notified after commit.
func (s *AssignmentCoordinator) Reassign(
	ctx context.Context,
	actor domain.Actor,
	id string,
	operatorID string,
) (*domain.Event, error) {
	if operatorID == "" {
		return nil, fmt.Errorf("%w: assignee_id is required", domain.ErrValidation)
	}

	if err := s.assignableOperator(ctx, operatorID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	item, err := s.workItems.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Require(actor, item.Topic, domain.ActionReassign); err != nil {
		return nil, err
	}

	if item.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: work item %s is %s", domain.ErrInvalidTransition, id, item.Status)
	}

	oldStatus := item.Status
	newStatus := oldStatus
	if oldStatus == domain.StatusNew {
		newStatus = domain.StatusAssigned
	}

	if err := s.workItems.UpdateStatus(ctx, tx, id, oldStatus, newStatus, &operatorID); err != nil {
		return nil, err
	}
	item.Status = newStatus
	item.AssigneeID = &operatorID

	var caseStatus string
	if newStatus != oldStatus {
		caseStatus, err = s.syncCase(ctx, tx, item, newStatus)
		if err != nil {
			return nil, err
		}
	}

	event := &domain.Event{
		WorkItemID: id,
		Type:       domain.EventTypeAssigned,
		Message:    assignedMessage(operatorID, caseStatus),
		ActorID:    &actor.ID,
		OldStatus:  &oldStatus,
		NewStatus:  &newStatus,
	}
	if err := s.appendAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("work item reassigned",
		"work_item_id", id,
		"actor_id", actor.ID,
		"assignee_id", operatorID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"event_id", event.ID,
	)

	if operatorID != actor.ID {
		text := fmt.Sprintf("Work item %s (%s) was assigned to you.", id, item.Topic)
		_, _ = s.notify(ctx, id, &actor.ID, domain.OperatorRecipient(operatorID), text)
	}

	return event, nil
}
