package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// AdmissionService is the case registry for scholar admission applications.
type AdmissionService struct {
	*core
	repo *repository.AdmissionRepository
}

// CreateAdmissionInput holds the fields of a new application.
type CreateAdmissionInput struct {
	ApplicantUserID    string
	FullName           string
	Country            string
	City               string
	EducationPlace     string
	EducationCompleted bool
	EducationDetails   string
	KnowledgeAreas     []string
	Experience         string
	Priority           *int
}

// AdmissionPatch holds optional changes to the applicant's details.
// Status changes go through ScheduleMeeting and Decide.
type AdmissionPatch struct {
	Status             *domain.AdmissionStatus
	FullName           *string
	Country            *string
	City               *string
	EducationPlace     *string
	EducationCompleted *bool
	EducationDetails   *string
	KnowledgeAreas     []string
	Experience         *string
}

func (p AdmissionPatch) isEmpty() bool {
	return p.Status == nil && p.FullName == nil && p.Country == nil && p.City == nil &&
		p.EducationPlace == nil && p.EducationCompleted == nil && p.EducationDetails == nil &&
		p.KnowledgeAreas == nil && p.Experience == nil
}

// MeetingInput schedules the introductory interview.
type MeetingInput struct {
	Type domain.MeetingType
	Link *string
	At   time.Time
}

// AdmissionDecision is the final decision on an application.
type AdmissionDecision struct {
	Status  domain.AdmissionStatus
	Comment string
	Roles   []domain.Role
}

// Create stores an application together with its work item.
func (s *AdmissionService) Create(ctx context.Context, actor domain.Actor, in CreateAdmissionInput) (*domain.AdmissionApplication, error) {
	if err := s.guard.Require(actor, domain.TopicAdmission, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("applicant_user_id", in.ApplicantUserID); err != nil {
		return nil, err
	}
	if err := requireField("full_name", in.FullName); err != nil {
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
	item, err := s.openItem(ctx, tx, domain.TopicAdmission, caseID, in.ApplicantUserID, in.Priority)
	if err != nil {
		return nil, err
	}

	areas := in.KnowledgeAreas
	if areas == nil {
		areas = []string{}
	}
	a := &domain.AdmissionApplication{
		ID:                 caseID,
		WorkItemID:         item.ID,
		Status:             domain.AdmissionPendingIntro,
		ApplicantUserID:    in.ApplicantUserID,
		FullName:           in.FullName,
		Country:            in.Country,
		City:               in.City,
		EducationPlace:     in.EducationPlace,
		EducationCompleted: in.EducationCompleted,
		EducationDetails:   in.EducationDetails,
		KnowledgeAreas:     areas,
		Experience:         in.Experience,
		AssignedRoles:      []domain.Role{},
	}
	if _, err := s.repo.Create(ctx, tx, a); err != nil {
		return nil, err
	}

	if err := s.commitCreated(ctx, tx, item, actor, fmt.Sprintf("application from %s", a.FullName)); err != nil {
		return nil, err
	}

	slog.Info("admission created",
		"admission_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
	)

	return a, nil
}

// Get returns an application the actor may view.
func (s *AdmissionService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.AdmissionApplication, error) {
	if err := s.guard.Require(actor, domain.TopicAdmission, domain.ActionView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns applications newest first, optionally filtered by status.
func (s *AdmissionService) List(ctx context.Context, actor domain.Actor, statuses []string, limit int) ([]*domain.AdmissionApplication, error) {
	if err := s.guard.Require(actor, domain.TopicAdmission, domain.ActionView); err != nil {
		return nil, err
	}
	if err := validateCaseStatuses(domain.TopicAdmission, statuses); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, statuses, clampLimit(limit))
}

// Patch edits the applicant's details. A status in the patch is only
// accepted when unchanged; meetings and decisions have their own operations.
func (s *AdmissionService) Patch(ctx context.Context, actor domain.Actor, id string, p AdmissionPatch) (*domain.AdmissionApplication, error) {
	if p.isEmpty() {
		return nil, domain.ErrNoUpdates
	}
	if p.Status != nil && !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q is not an admission status", domain.ErrInvalidStatus, *p.Status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != nil && *p.Status != current.Status {
		switch {
		case !current.Status.CanTransitionTo(*p.Status):
			return nil, fmt.Errorf("%w: admission %s -> %s", domain.ErrInvalidTransition, current.Status, *p.Status)
		case *p.Status == domain.AdmissionMeetingScheduled:
			return nil, fmt.Errorf("%w: use the schedule endpoint", domain.ErrValidation)
		default:
			return nil, fmt.Errorf("%w: %s is a decision, use the decision endpoint", domain.ErrValidation, *p.Status)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	item, err := s.lockCaseItem(ctx, tx, current.WorkItemID, actor, false)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	setString(&a.FullName, p.FullName)
	setString(&a.Country, p.Country)
	setString(&a.City, p.City)
	setString(&a.EducationPlace, p.EducationPlace)
	setString(&a.EducationDetails, p.EducationDetails)
	setString(&a.Experience, p.Experience)
	if p.EducationCompleted != nil {
		a.EducationCompleted = *p.EducationCompleted
	}
	if p.KnowledgeAreas != nil {
		a.KnowledgeAreas = p.KnowledgeAreas
	}

	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	if _, err := s.commitCaseEdit(ctx, tx, item, actor, "application details updated", ""); err != nil {
		return nil, err
	}

	slog.Info("admission updated",
		"admission_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
	)

	return a, nil
}

// AssignResponsible makes operatorID responsible for the application.
func (s *AdmissionService) AssignResponsible(ctx context.Context, actor domain.Actor, id string, operatorID string) (*domain.AdmissionApplication, error) {
	if err := s.checkResponsible(ctx, actor, domain.TopicAdmission, operatorID); err != nil {
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

	slog.Info("admission responsible assigned",
		"admission_id", id,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"assignee_id", operatorID,
	)

	if operatorID != actor.ID {
		text := fmt.Sprintf("You are now responsible for the application of %s.", a.FullName)
		_, _ = s.notify(ctx, item.ID, &actor.ID, domain.OperatorRecipient(operatorID), text)
	}

	return s.repo.GetByID(ctx, id)
}

// ScheduleMeeting sets or moves the introductory interview and tells the
// applicant when it is.
func (s *AdmissionService) ScheduleMeeting(ctx context.Context, actor domain.Actor, id string, m MeetingInput) (*domain.AdmissionApplication, error) {
	if err := ValidateMeeting(m.Type, m.Link, m.At); err != nil {
		return nil, err
	}
	if err := s.guard.Require(actor, domain.TopicAdmission, domain.ActionDecide); err != nil {
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
	var newCaseStatus string
	if oldStatus != domain.AdmissionMeetingScheduled {
		if !oldStatus.CanTransitionTo(domain.AdmissionMeetingScheduled) {
			return nil, fmt.Errorf("%w: admission %s -> %s", domain.ErrInvalidTransition, oldStatus, domain.AdmissionMeetingScheduled)
		}
		a.Status = domain.AdmissionMeetingScheduled
		newCaseStatus = string(a.Status)
	}

	meetingType := m.Type
	at := m.At.UTC()
	a.MeetingType = &meetingType
	a.MeetingLink = m.Link
	a.MeetingAt = &at
	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s meeting scheduled for %s", meetingType, at.Format(time.RFC3339))
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, newCaseStatus); err != nil {
		return nil, err
	}

	slog.Info("admission meeting scheduled",
		"admission_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"meeting_at", at,
	)

	text := fmt.Sprintf("Your introductory %s meeting is scheduled for %s.", meetingType, at.Format("2006-01-02 15:04 MST"))
	if a.MeetingLink != nil {
		text += " Link: " + *a.MeetingLink
	}
	_, _ = s.notify(ctx, item.ID, &actor.ID, domain.UserRecipient(a.ApplicantUserID), text)

	return a, nil
}

// Decide records the final decision. Approval attaches one or two roles in
// the same write as the status.
func (s *AdmissionService) Decide(ctx context.Context, actor domain.Actor, id string, d AdmissionDecision) (*domain.AdmissionApplication, error) {
	roles, err := ValidateAdmissionDecision(d.Status, d.Comment, d.Roles)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(actor, domain.TopicAdmission, domain.ActionDecide); err != nil {
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
		return nil, fmt.Errorf("%w: admission %s -> %s", domain.ErrInvalidTransition, oldStatus, d.Status)
	}

	comment := strings.TrimSpace(d.Comment)
	a.Status = d.Status
	a.DecisionComment = &comment
	a.DecidedBy = &actor.ID
	a.AssignedRoles = roles
	if err := s.repo.Update(ctx, tx, a); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("decision %s: %s", a.Status, comment)
	if len(roles) > 0 {
		message = fmt.Sprintf("decision %s with roles %v: %s", a.Status, roles, comment)
	}
	if _, err := s.commitCaseEdit(ctx, tx, item, actor, message, string(a.Status)); err != nil {
		return nil, err
	}

	slog.Info("admission decided",
		"admission_id", a.ID,
		"work_item_id", item.ID,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", a.Status,
		"roles", roles,
	)

	_, _ = s.notify(ctx, item.ID, &actor.ID, domain.UserRecipient(a.ApplicantUserID), admissionDecisionText(a))

	return a, nil
}

func admissionDecisionText(a *domain.AdmissionApplication) string {
	switch a.Status {
	case domain.AdmissionApproved:
		return "Your application was approved. Welcome aboard."
	case domain.AdmissionObserver:
		return "Your application was accepted with observer status."
	default:
		return fmt.Sprintf("Your application was not accepted: %s", deref(a.DecisionComment))
	}
}

func (s *AdmissionService) syncFromItem(
	ctx context.Context,
	tx pgx.Tx,
	caseID string,
	itemStatus domain.WorkItemStatus,
) (string, error) {
	a, err := s.repo.GetByIDForUpdate(ctx, tx, caseID)
	if err != nil {
		return "", err
	}
	next, ok := domain.CaseStatusForItem(domain.TopicAdmission, string(a.Status), itemStatus)
	if !ok {
		return "", nil
	}
	a.Status = domain.AdmissionStatus(next)
	if err := s.repo.Update(ctx, tx, a); err != nil {
		return "", err
	}
	return next, nil
}
