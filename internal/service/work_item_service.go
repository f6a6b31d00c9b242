package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// WorkItemService implements the generic queue operations.
type WorkItemService struct {
	*core
}

// ListFilters narrows a work item listing.
type ListFilters struct {
	Topic      *domain.Topic
	Statuses   []domain.WorkItemStatus
	Mine       bool
	Unassigned bool
	Limit      int
	Offset     int
}

// List returns work items newest first, limited to topics the actor may view.
func (s *WorkItemService) List(ctx context.Context, actor domain.Actor, filters ListFilters) ([]*domain.WorkItem, int, error) {
	topics, err := s.guard.VisibleTopics(actor, filters.Topic)
	if err != nil {
		return nil, 0, err
	}
	for _, status := range filters.Statuses {
		if !status.IsValid() {
			return nil, 0, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
		}
	}

	repoFilters := repository.WorkItemListFilters{
		Topics:     topics,
		Statuses:   filters.Statuses,
		Unassigned: filters.Unassigned,
		Limit:      clampLimit(filters.Limit),
		Offset:     max(filters.Offset, 0),
	}
	if filters.Mine {
		repoFilters.AssigneeID = &actor.ID
	}

	return s.workItems.List(ctx, repoFilters)
}

// Get returns a work item the actor may view.
func (s *WorkItemService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.WorkItem, error) {
	item, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(actor, item.Topic, domain.ActionView); err != nil {
		return nil, err
	}
	return item, nil
}

// Events returns the item's audit trail in chronological order.
func (s *WorkItemService) Events(ctx context.Context, actor domain.Actor, id string) ([]*domain.Event, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.events.ListByWorkItem(ctx, id)
}

// SetStatus moves a work item along the queue graph and mirrors the change
// into its linked case in the same transaction.
func (s *WorkItemService) SetStatus(
	ctx context.Context,
	actor domain.Actor,
	id string,
	newStatus domain.WorkItemStatus,
) (*domain.Event, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}
	if newStatus == domain.StatusAssigned {
		return nil, fmt.Errorf("%w: items become assigned only by claim", domain.ErrInvalidTransition)
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

	if err := s.guard.CanActOn(actor, item); err != nil {
		return nil, err
	}

	oldStatus := item.Status
	if !oldStatus.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, oldStatus, newStatus)
	}

	assignee := item.AssigneeID
	if assignee == nil {
		if err := s.requireOperator(ctx, actor); err != nil {
			return nil, err
		}
		assignee = &actor.ID
	}

	if err := s.workItems.UpdateStatus(ctx, tx, id, oldStatus, newStatus, assignee); err != nil {
		return nil, err
	}
	item.Status = newStatus
	item.AssigneeID = assignee

	caseStatus, err := s.syncCase(ctx, tx, item, newStatus)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		WorkItemID: id,
		Type:       domain.EventTypeStatusChanged,
		ActorID:    &actor.ID,
		OldStatus:  &oldStatus,
		NewStatus:  &newStatus,
	}
	if caseStatus != "" {
		event.Message = fmt.Sprintf("case moved to %s", caseStatus)
	}

	if err := s.appendAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("work item status changed",
		"work_item_id", id,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"case_status", caseStatus,
		"event_id", event.ID,
	)

	return event, nil
}

// AddComment appends a comment event without changing status.
func (s *WorkItemService) AddComment(ctx context.Context, actor domain.Actor, id string, message string) (*domain.Event, error) {
	if err := validateComment(message); err != nil {
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
	if err := s.guard.CanActOn(actor, item); err != nil {
		return nil, err
	}
	if err := s.workItems.Touch(ctx, tx, id); err != nil {
		return nil, err
	}

	event := &domain.Event{
		WorkItemID: id,
		Type:       domain.EventTypeComment,
		Message:    strings.TrimSpace(message),
		ActorID:    &actor.ID,
	}
	if err := s.appendAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("work item commented",
		"work_item_id", id,
		"actor_id", actor.ID,
		"event_id", event.ID,
	)

	return event, nil
}

// NotifyUser messages the item's target user. The notified event is written
// whether or not delivery succeeds; a failed delivery is returned as
// ErrNotificationFailed.
func (s *WorkItemService) NotifyUser(ctx context.Context, actor domain.Actor, id string, text string) (*domain.Event, error) {
	if err := validateComment(text); err != nil {
		return nil, err
	}

	item, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanActOn(actor, item); err != nil {
		return nil, err
	}
	if item.TargetUserID == nil || *item.TargetUserID == "" {
		return nil, fmt.Errorf("%w: work item %s", domain.ErrNoNotificationTarget, id)
	}

	event, err := s.notify(ctx, id, &actor.ID, domain.UserRecipient(*item.TargetUserID), strings.TrimSpace(text))
	if err != nil {
		return event, err
	}

	slog.Info("user notified",
		"work_item_id", id,
		"actor_id", actor.ID,
		"target_user_id", *item.TargetUserID,
	)

	return event, nil
}
