// Package service implements the work item queue and the case workflows.
//
// Every mutation runs in one transaction: lock the work item, validate the
// actor and the transition, write, append the event, commit. Linked case
// records and work items are moved together through the sync hooks in this
// package. Notifications are sent only after commit.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/authz"
	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/evidence"
	"github.com/mtlprog/workdesk/internal/notify"
	"github.com/mtlprog/workdesk/internal/repository"
)

// Config holds the collaborators shared by all services.
type Config struct {
	Authz      *authz.Table
	Dispatcher notify.Dispatcher
	Evidence   evidence.Store
}

// Services bundles the services built over one pool.
type Services struct {
	WorkItems   *WorkItemService
	Assignments *AssignmentCoordinator
	Disputes    *DisputeService
	Contracts   *ContractService
	Aid         *AidService
	Admissions  *AdmissionService
	Stats       *StatsService
}

// New wires repositories and services.
func New(pool *pgxpool.Pool, cfg Config) *Services {
	if cfg.Authz == nil {
		cfg.Authz = authz.Default()
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = notify.LogDispatcher{}
	}
	if cfg.Evidence == nil {
		cfg.Evidence = evidence.Disabled{}
	}

	c := &core{
		pool:       pool,
		guard:      NewGuard(cfg.Authz),
		workItems:  repository.NewWorkItemRepository(pool),
		events:     repository.NewEventRepository(pool),
		operators:  repository.NewOperatorRepository(pool),
		dispatcher: cfg.Dispatcher,
	}

	disputes := &DisputeService{core: c, repo: repository.NewDisputeRepository(pool), evidence: cfg.Evidence}
	contracts := &ContractService{core: c, repo: repository.NewContractRepository(pool)}
	aid := &AidService{core: c, repo: repository.NewAidRepository(pool), needy: repository.NewNeedyRepository(pool)}
	admissions := &AdmissionService{core: c, repo: repository.NewAdmissionRepository(pool)}

	c.syncers = map[domain.Topic]caseSyncer{
		domain.TopicDispute:   disputes,
		domain.TopicContract:  contracts,
		domain.TopicAid:       aid,
		domain.TopicAdmission: admissions,
	}

	return &Services{
		WorkItems:   &WorkItemService{core: c},
		Assignments: &AssignmentCoordinator{core: c},
		Disputes:    disputes,
		Contracts:   contracts,
		Aid:         aid,
		Admissions:  admissions,
		Stats:       &StatsService{guard: c.guard, repo: repository.NewStatsRepository(pool)},
	}
}

// core is embedded by every service that mutates work items.
type core struct {
	pool       *pgxpool.Pool
	guard      *Guard
	workItems  *repository.WorkItemRepository
	events     *repository.EventRepository
	operators  *repository.OperatorRepository
	dispatcher notify.Dispatcher
	syncers    map[domain.Topic]caseSyncer
}

// rollback is deferred after Begin; it is a no-op once the transaction committed.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// appendAndCommit persists events within the transaction, then commits.
func (c *core) appendAndCommit(ctx context.Context, tx pgx.Tx, events ...*domain.Event) error {
	for _, event := range events {
		if err := c.events.Append(ctx, tx, event); err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// activeOperator fetches an operator by ID and verifies it is active.
func (c *core) activeOperator(ctx context.Context, operatorID string) (*domain.Operator, error) {
	op, err := c.operators.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !op.IsActive {
		return nil, fmt.Errorf("%w: %s", domain.ErrOperatorInactive, operatorID)
	}
	return op, nil
}

// requireOperator checks that the actor may own work items.
func (c *core) requireOperator(ctx context.Context, actor domain.Actor) error {
	_, err := c.activeOperator(ctx, actor.ID)
	if errors.Is(err, domain.ErrOperatorNotFound) || errors.Is(err, domain.ErrOperatorInactive) {
		return fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	}
	return err
}

// syncCase runs the forward hook of the item's case family after the item
// moved to status. It returns the case status written, or "" if the case stayed.
func (c *core) syncCase(ctx context.Context, tx pgx.Tx, item *domain.WorkItem, status domain.WorkItemStatus) (string, error) {
	if item.Payload.IsZero() {
		return "", nil
	}
	syncer, ok := c.syncers[item.Payload.Family]
	if !ok {
		return "", fmt.Errorf("%w: no registry for family %s", domain.ErrWorkItemHasNoCase, item.Payload.Family)
	}
	caseStatus, err := syncer.syncFromItem(ctx, tx, item.Payload.CaseID, status)
	if err != nil {
		return "", fmt.Errorf("sync %s case %s: %w", item.Payload.Family, item.Payload.CaseID, err)
	}
	return caseStatus, nil
}

// followCase runs the inverse hook after the item's case moved to caseStatus.
// The item walks the legal path to the implied status, one event per step:
// assigned for the claim out of new, status_changed for every other move.
// An item leaving new gets the actor as assignee.
func (c *core) followCase(
	ctx context.Context,
	tx pgx.Tx,
	item *domain.WorkItem,
	caseStatus string,
	actor domain.Actor,
) ([]*domain.Event, error) {
	path := domain.ItemPathForCase(item.Topic, item.Status, caseStatus)
	if len(path) == 0 {
		return nil, nil
	}

	if item.AssigneeID == nil {
		if err := c.requireOperator(ctx, actor); err != nil {
			return nil, err
		}
	}

	events := make([]*domain.Event, 0, len(path))
	for _, next := range path {
		oldStatus := item.Status
		event := &domain.Event{
			WorkItemID: item.ID,
			Type:       domain.EventTypeStatusChanged,
			Message:    fmt.Sprintf("case moved to %s", caseStatus),
			ActorID:    &actor.ID,
			OldStatus:  &oldStatus,
			NewStatus:  &next,
		}

		switch {
		case next == domain.StatusAssigned:
			if err := c.workItems.Claim(ctx, tx, item.ID, actor.ID); err != nil {
				return nil, err
			}
			item.AssigneeID = &actor.ID
			event.Type = domain.EventTypeAssigned
			event.Message = assignedMessage(actor.ID, caseStatus)
		default:
			assignee := item.AssigneeID
			if assignee == nil {
				assignee = &actor.ID
			}
			if err := c.workItems.UpdateStatus(ctx, tx, item.ID, oldStatus, next, assignee); err != nil {
				return nil, err
			}
			item.AssigneeID = assignee
		}

		item.Status = next
		events = append(events, event)
	}
	return events, nil
}

// commitCaseEdit finishes a case edit: it appends case_updated, moves the
// item through the inverse hook when the case status changed, and commits.
func (c *core) commitCaseEdit(
	ctx context.Context,
	tx pgx.Tx,
	item *domain.WorkItem,
	actor domain.Actor,
	message string,
	newCaseStatus string,
) ([]*domain.Event, error) {
	events := []*domain.Event{{
		WorkItemID: item.ID,
		Type:       domain.EventTypeCaseUpdated,
		Message:    message,
		ActorID:    &actor.ID,
	}}

	var moved []*domain.Event
	if newCaseStatus != "" {
		var err error
		moved, err = c.followCase(ctx, tx, item, newCaseStatus, actor)
		if err != nil {
			return nil, err
		}
	}

	if len(moved) > 0 {
		events = append(events, moved...)
	} else if err := c.workItems.Touch(ctx, tx, item.ID); err != nil {
		return nil, err
	}

	if err := c.appendAndCommit(ctx, tx, events...); err != nil {
		return nil, err
	}
	return events, nil
}

// lockCaseItem locks the work item of a case and checks the actor may edit it.
func (c *core) lockCaseItem(
	ctx context.Context,
	tx pgx.Tx,
	workItemID string,
	actor domain.Actor,
	specialistOnly bool,
) (*domain.WorkItem, error) {
	item, err := c.workItems.GetByIDForUpdate(ctx, tx, workItemID)
	if err != nil {
		return nil, err
	}
	if err := c.guard.CanEditCase(actor, item, specialistOnly); err != nil {
		return nil, err
	}
	return item, nil
}

// openItem inserts the work item for a new case of the family.
func (c *core) openItem(
	ctx context.Context,
	tx pgx.Tx,
	family domain.Topic,
	caseID string,
	requesterUserID string,
	priority *int,
) (*domain.WorkItem, error) {
	p := domain.DefaultPriority
	if priority != nil {
		p = *priority
	}

	item := &domain.WorkItem{
		Topic:           family,
		Kind:            domain.KindCaseCreated,
		Status:          domain.StatusNew,
		Priority:        p,
		TargetUserID:    &requesterUserID,
		Payload:         domain.NewCaseLink(family, caseID),
		CreatedByUserID: &requesterUserID,
	}
	if err := item.Payload.Validate(item.Topic); err != nil {
		return nil, err
	}
	return c.workItems.Create(ctx, tx, item)
}

// commitCreated appends the created event for a new case and commits.
func (c *core) commitCreated(ctx context.Context, tx pgx.Tx, item *domain.WorkItem, actor domain.Actor, message string) error {
	status := item.Status
	return c.appendAndCommit(ctx, tx, &domain.Event{
		WorkItemID: item.ID,
		Type:       domain.EventTypeCreated,
		Message:    message,
		ActorID:    &actor.ID,
		NewStatus:  &status,
	})
}

// takeResponsibility records operatorID as responsible for a case whose item
// is locked. An unclaimed item is claimed for that operator as well.
func (c *core) takeResponsibility(
	ctx context.Context,
	tx pgx.Tx,
	item *domain.WorkItem,
	operatorID string,
	actor domain.Actor,
) error {
	events := []*domain.Event{{
		WorkItemID: item.ID,
		Type:       domain.EventTypeCaseUpdated,
		Message:    fmt.Sprintf("responsible operator set to %s", operatorID),
		ActorID:    &actor.ID,
	}}

	if item.IsClaimable() {
		if err := c.workItems.Claim(ctx, tx, item.ID, operatorID); err != nil {
			return err
		}
		oldStatus := item.Status
		newStatus := domain.StatusAssigned
		item.Status = newStatus
		item.AssigneeID = &operatorID

		caseStatus, err := c.syncCase(ctx, tx, item, newStatus)
		if err != nil {
			return err
		}
		events = append(events, &domain.Event{
			WorkItemID: item.ID,
			Type:       domain.EventTypeAssigned,
			Message:    assignedMessage(operatorID, caseStatus),
			ActorID:    &actor.ID,
			OldStatus:  &oldStatus,
			NewStatus:  &newStatus,
		})
	} else if err := c.workItems.Touch(ctx, tx, item.ID); err != nil {
		return err
	}

	return c.appendAndCommit(ctx, tx, events...)
}

// checkResponsible validates who may be made responsible for a case.
// Only elevated actors may pick someone other than themselves.
func (c *core) checkResponsible(ctx context.Context, actor domain.Actor, topic domain.Topic, operatorID string) error {
	if operatorID == "" {
		return fmt.Errorf("%w: assignee_id is required", domain.ErrValidation)
	}
	if operatorID != actor.ID && !c.guard.IsElevated(actor) {
		return fmt.Errorf("%w: only elevated operators may assign others", domain.ErrForbidden)
	}
	if err := c.guard.Require(actor, topic, domain.ActionClaim); err != nil {
		return err
	}
	return c.assignableOperator(ctx, operatorID)
}

// assignableOperator checks that operatorID names an active operator.
// An unknown or inactive assignee is a bad request, not a missing resource.
func (c *core) assignableOperator(ctx context.Context, operatorID string) error {
	_, err := c.activeOperator(ctx, operatorID)
	switch {
	case errors.Is(err, domain.ErrOperatorNotFound):
		return fmt.Errorf("%w: operator %s does not exist", domain.ErrValidation, operatorID)
	case errors.Is(err, domain.ErrOperatorInactive):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return err
}

// notify sends text after commit and records the outcome as a notified event
// in its own transaction. The returned error is the delivery error, if any.
func (c *core) notify(
	ctx context.Context,
	workItemID string,
	actorID *string,
	to domain.Recipient,
	text string,
) (*domain.Event, error) {
	sendErr := c.dispatcher.Send(ctx, to, text)

	message := fmt.Sprintf("notified %s %s: %s", to.Kind, to.ID, text)
	if sendErr != nil {
		message = fmt.Sprintf("notification to %s %s failed: %v", to.Kind, to.ID, sendErr)
		slog.Warn("notification failed",
			"work_item_id", workItemID,
			"recipient_kind", to.Kind,
			"recipient_id", to.ID,
			"error", sendErr,
		)
	}

	event := &domain.Event{
		WorkItemID: workItemID,
		Type:       domain.EventTypeNotified,
		Message:    message,
		ActorID:    actorID,
	}
	if err := c.recordEvent(ctx, event); err != nil {
		slog.Error("failed to record notification event", "work_item_id", workItemID, "error", err)
		if sendErr == nil {
			return nil, err
		}
	}

	if sendErr != nil {
		return event, sendErr
	}
	return event, nil
}

// recordEvent appends a single event in its own transaction.
func (c *core) recordEvent(ctx context.Context, event *domain.Event) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	return c.appendAndCommit(ctx, tx, event)
}

func assignedMessage(operatorID, caseStatus string) string {
	if caseStatus == "" {
		return fmt.Sprintf("assigned to %s", operatorID)
	}
	return fmt.Sprintf("assigned to %s; case moved to %s", operatorID, caseStatus)
}

// caseSyncer is implemented by each case family's service. It is the single
// dispatch point from a work item payload to the case table it links.
type caseSyncer interface {
	// syncFromItem applies the forward hook inside tx and returns the case
	// status written, or "" if the case did not change.
	syncFromItem(ctx context.Context, tx pgx.Tx, caseID string, itemStatus domain.WorkItemStatus) (string, error)
}
