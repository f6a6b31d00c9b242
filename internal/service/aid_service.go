package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// AidService is the case registry for charitable aid requests, together with
// the needy-person registry and the requester confirmations of received aid.
type AidService struct {
	*core
	repo  *repository.AidRepository
	needy *repository.NeedyRepository
}

// CreateAidInput holds the fields of a new aid request.
type CreateAidInput struct {
	RequesterUserID string
	Title           string
	Description     string
	City            string
	Country         string
	Category        string
	HelpType        string
	Amount          *int64
	Priority        *int
}

// AidPatch holds optional aid request changes. Decisions go through Decide.
type AidPatch struct {
	Status      *domain.AidStatus
	Title       *string
	Description *string
	City        *string
	Country     *string
	Category    *string
	HelpType    *string
	Amount      *int64
	Specialist  SpecialistPatch
}

func (p AidPatch) caseFieldsEmpty() bool {
	return p.Status == nil && p.Title == nil && p.Description == nil && p.City == nil &&
		p.Country == nil && p.Category == nil && p.HelpType == nil && p.Amount == nil
}

// AidDecision is a reviewer decision on a pending aid request.
type AidDecision struct {
	Status           domain.AidStatus
	Comment          string
	ApprovedCategory *domain.AidCategory
}

// Create stores an aid request together with its work item.
func (s *AidService) Create(ctx context.Context, actor domain.Actor, in CreateAidInput) (*domain.AidRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("requester_user_id", in.RequesterUserID); err != nil {
		return nil, err
	}
	if err := requireField("description", in.Description); err != nil {
		return nil, err
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	caseID := uuid.NewString()
	item, err := s.openItem(ctx, tx, domain.TopicAid, caseID, in.RequesterUserID, in.Priority)
	if err != nil {
		return nil, err
	}

	a := &domain.AidRequest{
		ID:              caseID,
		WorkItemID:      item.ID,
		Status:          domain.AidPending,
		RequesterUserID: in.RequesterUserID,
		Title:           in.Title,
		Description:     in.Description,
		City:            in.City,
		Country:         in.Country,
		Category:        in.Category,
		HelpType:        in.HelpType,
		Amount:          in.Amount,
	}
	if _, err := s.repo.Create(ctx, tx, a); err != nil {
		return nil, err
	}

	if err := s.commitCreated(ctx, tx, item, actor, "aid request submitted"); err != nil {
		return nil, err
	}

	slog.Info("aid request created",
		"aid_request_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
	)

	return a, nil
}

// Get returns an aid request the actor may view.
func (s *AidService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.AidRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns aid requests newest first, optionally filtered by status.
func (s *AidService) List(ctx context.Context, actor domain.Actor, statuses []string, limit int) ([]*domain.AidRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionView); err != nil {
		return nil, err
	}
	if err := validateCaseStatuses(domain.TopicAid, statuses); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, statuses, clampLimit(limit))
}

// Patch edits an aid request. Decision statuses are rejected here.
func (s *AidService) Patch(ctx context.Context, actor domain.Actor, id string, p AidPatch) (*domain.AidRequest, error) {
	if p.caseFieldsEmpty() && p.Specialist.isEmpty() {
		return nil, domain.ErrNoUpdates
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q is not an aid status", domain.ErrInvalidStatus, *p.Status)
		}
		if p.Status.IsDecision() {
			return nil, fmt.Errorf("%w: %s is a decision, use the decision endpoint", domain.ErrValidation, *p.Status)
		}
	}
	if p.Amount != nil && *p.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
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

	a, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := a.Status
	var newCaseStatus string
	if p.Status != nil && *p.Status != oldStatus {
		if !oldStatus.CanTransitionTo(*p.Status) {
			return nil, fmt.Errorf("%w: aid request %s -> %s", domain.ErrInvalidTransition, oldStatus, *p.Status)
		}
		a.Status = *p.Status
		newCaseStatus = string(a.Status)
	}
	setString(&a.Title, p.Title)
	setString(&a.Description, p.Description)
	setString(&a.City, p.City)
	setString(&a.Country, p.Country)
	setString(&a.Category, p.Category)
	setString(&a.HelpType, p.HelpType)
	if p.Amount != nil {
		a.Amount = p.Amount
	}
	p.Specialist.apply(&a.Specialist)

	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	message := "aid request updated"
	if newCaseStatus != "" {
		message = fmt.Sprintf("aid request %s -> %s", oldStatus, a.Status)
	}
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, newCaseStatus); err != nil {
		return nil, err
	}

	slog.Info("aid request updated",
		"aid_request_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", a.Status,
	)

	return a, nil
}

// AssignResponsible makes operatorID responsible for the aid request.
func (s *AidService) AssignResponsible(ctx context.Context, actor domain.Actor, id string, operatorID string) (*domain.AidRequest, error) {
	if err := s.checkResponsible(ctx, actor, domain.TopicAid, operatorID); err != nil {
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
	a, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	a.ResponsibleOperatorID = &operatorID
	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	if err := s.takeResponsibility(ctx, tx, item, operatorID, actor); err != nil {
		return nil, err
	}

	slog.Info("aid request responsible assigned",
		"aid_request_id", id,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"assignee_id", operatorID,
	)

	if operatorID != actor.ID {
		text := fmt.Sprintf("You are now responsible for aid request %s.", id)
		_, _ = s.notify(ctx, item.ID, &actor.ID, domain.OperatorRecipient(operatorID), text)
	}

	return s.repo.GetByID(ctx, id)
}

// Decide records a review decision on a pending aid request and notifies
// the requester after commit.
func (s *AidService) Decide(ctx context.Context, actor domain.Actor, id string, d AidDecision) (*domain.AidRequest, error) {
	if err := ValidateAidDecision(d.Status, d.Comment, d.ApprovedCategory); err != nil {
		return nil, err
	}
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionDecide); err != nil {
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
	a, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := a.Status
	if !oldStatus.CanTransitionTo(d.Status) {
		return nil, fmt.Errorf("%w: aid request %s -> %s", domain.ErrInvalidTransition, oldStatus, d.Status)
	}

	comment := strings.TrimSpace(d.Comment)
	a.Status = d.Status
	a.ReviewComment = &comment
	a.ReviewedBy = &actor.ID
	if d.Status == domain.AidApproved {
		a.ApprovedCategory = d.ApprovedCategory
	}

	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("decision %s: %s", a.Status, comment)
	if a.ApprovedCategory != nil && a.Status == domain.AidApproved {
		message = fmt.Sprintf("decision %s (%s): %s", a.Status, *a.ApprovedCategory, comment)
	}
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, string(a.Status)); err != nil {
		return nil, err
	}

	slog.Info("aid request decided",
		"aid_request_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", a.Status,
	)

	_, _ = s.notify(ctx, item.ID, &actor.ID, domain.UserRecipient(a.RequesterUserID), aidDecisionText(a))

	return a, nil
}

func aidDecisionText(a *domain.AidRequest) string {
	switch a.Status {
	case domain.AidApproved:
		return "Your aid request was approved."
	case domain.AidNeedsClarification:
		return fmt.Sprintf("Your aid request needs clarification: %s", deref(a.ReviewComment))
	default:
		return fmt.Sprintf("Your aid request was rejected: %s", deref(a.ReviewComment))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SubmitClarification records the requester's answer to a clarification
// request and returns the aid request to review.
func (s *AidService) SubmitClarification(
	ctx context.Context,
	actor domain.Actor,
	id string,
	userID string,
	text string,
	attachment *string,
) (*domain.AidRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("text", text); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.RequesterUserID != userID {
		return nil, fmt.Errorf("%w: user %s did not submit aid request %s", domain.ErrForbidden, userID, id)
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
	a, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AidNeedsClarification {
		return nil, fmt.Errorf("%w: aid request %s is %s", domain.ErrInvalidTransition, id, a.Status)
	}

	a.Status = domain.AidPending
	a.ClarificationText = &text
	a.ClarificationAttachment = attachment
	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	events := []*domain.Event{{
		WorkItemID: item.ID,
		Type:       domain.EventTypeCaseUpdated,
		Message:    "requester answered: " + text,
	}}
	moved, err := s.followCase(ctx, tx, item, string(a.Status), actor)
	if err != nil {
		return nil, err
	}
	if len(moved) > 0 {
		for _, event := range moved {
			event.ActorID = nil
		}
		events = append(events, moved...)
	} else if err := s.workItems.Touch(ctx, tx, item.ID); err != nil {
		return nil, err
	}

	if err := s.appendAndCommit(ctx, tx, events...); err != nil {
		return nil, err
	}

	slog.Info("aid clarification submitted",
		"aid_request_id", id,
		"work_item_id", item.ID,
		"requester_user_id", userID,
	)

	return a, nil
}

// CreateConfirmationInput is a requester's confirmation that aid was received.
type CreateConfirmationInput struct {
	RequesterUserID string
	Text            string
	Attachment      *string
}

// CreateConfirmation stores a confirmation for an approved aid request.
func (s *AidService) CreateConfirmation(
	ctx context.Context,
	actor domain.Actor,
	aidRequestID string,
	in CreateConfirmationInput,
) (*domain.Confirmation, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("text", in.Text); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, aidRequestID)
	if err != nil {
		return nil, err
	}
	if current.RequesterUserID != in.RequesterUserID {
		return nil, fmt.Errorf("%w: user %s did not submit aid request %s", domain.ErrForbidden, in.RequesterUserID, aidRequestID)
	}
	if current.Status != domain.AidApproved && current.Status != domain.AidInProgress {
		return nil, fmt.Errorf("%w: aid request %s is %s", domain.ErrInvalidTransition, aidRequestID, current.Status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if _, err := s.workItems.GetByIDForUpdate(ctx, tx, current.WorkItemID); err != nil {
		return nil, err
	}

	c := &domain.Confirmation{
		AidRequestID:    aidRequestID,
		RequesterUserID: in.RequesterUserID,
		Text:            in.Text,
		Attachment:      in.Attachment,
	}
	if _, err := s.repo.CreateConfirmation(ctx, tx, c); err != nil {
		return nil, err
	}
	if err := s.workItems.Touch(ctx, tx, current.WorkItemID); err != nil {
		return nil, err
	}

	event := &domain.Event{
		WorkItemID: current.WorkItemID,
		Type:       domain.EventTypeCaseUpdated,
		Message:    fmt.Sprintf("confirmation %s submitted", c.ID),
	}
	if err := s.appendAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("aid confirmation created",
		"confirmation_id", c.ID,
		"aid_request_id", aidRequestID,
		"work_item_id", current.WorkItemID,
	)

	return c, nil
}

// ListConfirmations returns the confirmations of an aid request.
func (s *AidService) ListConfirmations(ctx context.Context, actor domain.Actor, aidRequestID string) ([]*domain.Confirmation, error) {
	if _, err := s.Get(ctx, actor, aidRequestID); err != nil {
		return nil, err
	}
	return s.repo.ListConfirmations(ctx, aidRequestID)
}

// GetConfirmation returns a confirmation the actor may view.
func (s *AidService) GetConfirmation(ctx context.Context, actor domain.Actor, id string) (*domain.Confirmation, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionView); err != nil {
		return nil, err
	}
	return s.repo.GetConfirmation(ctx, id)
}

// DecideConfirmation reviews a confirmation. Approving it completes the aid
// request and, through the sync hook, its work item.
func (s *AidService) DecideConfirmation(
	ctx context.Context,
	actor domain.Actor,
	id string,
	status domain.ReviewStatus,
	comment string,
) (*domain.Confirmation, error) {
	if !status.IsDecision() {
		return nil, fmt.Errorf("%w: %q is not a review decision", domain.ErrInvalidStatus, status)
	}
	if err := requireField("comment", comment); err != nil {
		return nil, err
	}
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionDecide); err != nil {
		return nil, err
	}

	pending, err := s.repo.GetConfirmation(ctx, id)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, pending.AidRequestID)
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
	a, err := s.repo.GetByIDForUpdate(ctx, tx, current.ID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetConfirmationForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	c.Status = status
	c.ReviewComment = &comment
	c.ReviewedBy = &actor.ID
	if err := s.repo.ReviewConfirmation(ctx, tx, c); err != nil {
		return nil, err
	}

	var newCaseStatus string
	if status == domain.ReviewApproved && a.Status != domain.AidCompleted {
		if !a.Status.CanTransitionTo(domain.AidCompleted) {
			return nil, fmt.Errorf("%w: aid request %s is %s", domain.ErrInvalidTransition, a.ID, a.Status)
		}
		a.Status = domain.AidCompleted
		if err := s.repo.Update(ctx, tx, a); err != nil {
			return nil, err
		}
		newCaseStatus = string(a.Status)
	}

	message := fmt.Sprintf("confirmation %s %s: %s", c.ID, c.Status, comment)
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, newCaseStatus); err != nil {
		return nil, err
	}

	slog.Info("aid confirmation reviewed",
		"confirmation_id", c.ID,
		"aid_request_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"status", c.Status,
	)

	text := "Your confirmation was accepted. Thank you."
	if status == domain.ReviewRejected {
		text = fmt.Sprintf("Your confirmation was not accepted: %s", comment)
	}
	_, _ = s.notify(ctx, item.ID, &actor.ID, domain.UserRecipient(c.RequesterUserID), text)

	return c, nil
}

func (s *AidService) syncFromItem(
	ctx context.Context,
	tx pgx.Tx,
	caseID string,
	itemStatus domain.WorkItemStatus,
) (string, error) {
	a, err := s.repo.GetByIDForUpdate(ctx, tx, caseID)
	if err != nil {
		return "", err
	}
	next, ok := domain.CaseStatusForItem(domain.TopicAid, string(a.Status), itemStatus)
	if !ok {
		return "", nil
	}
	a.Status = domain.AidStatus(next)
	if err := s.repo.Update(ctx, tx, a); err != nil {
		return "", err
	}
	return next, nil
}
