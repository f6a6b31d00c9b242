package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/workdesk/internal/domain"
)

// CreateNeedyInput registers a person in need on behalf of a member.
type CreateNeedyInput struct {
	RequesterUserID string
	PersonType      domain.NeedyPersonType
	City            string
	Country         string
	Reason          string
	AllowZakat      bool
	AllowFitr       bool
	SadaqaOnly      bool
}

// CreateNeedy stores a needy-person registration for review.
func (s *AidService) CreateNeedy(ctx context.Context, actor domain.Actor, in CreateNeedyInput) (*domain.NeedyRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requireField("requester_user_id", in.RequesterUserID); err != nil {
		return nil, err
	}
	if err := requireField("reason", in.Reason); err != nil {
		return nil, err
	}
	if !in.PersonType.IsValid() {
		return nil, fmt.Errorf("%w: unknown person type %q", domain.ErrValidation, in.PersonType)
	}
	if in.SadaqaOnly && (in.AllowZakat || in.AllowFitr) {
		return nil, fmt.Errorf("%w: sadaqa_only excludes zakat and fitr", domain.ErrValidation)
	}
	if !in.SadaqaOnly && !in.AllowZakat && !in.AllowFitr {
		return nil, fmt.Errorf("%w: at least one aid category must be allowed", domain.ErrValidation)
	}

	n := &domain.NeedyRequest{
		RequesterUserID: in.RequesterUserID,
		PersonType:      in.PersonType,
		City:            in.City,
		Country:         in.Country,
		Reason:          in.Reason,
		AllowZakat:      in.AllowZakat,
		AllowFitr:       in.AllowFitr,
		SadaqaOnly:      in.SadaqaOnly,
	}
	if _, err := s.needy.Create(ctx, n); err != nil {
		return nil, err
	}

	slog.Info("needy request created",
		"needy_request_id", n.ID,
		"requester_user_id", n.RequesterUserID,
		"actor_id", actor.ID,
	)

	return n, nil
}

// GetNeedy returns a needy-person registration.
func (s *AidService) GetNeedy(ctx context.Context, actor domain.Actor, id string) (*domain.NeedyRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionView); err != nil {
		return nil, err
	}
	return s.needy.GetByID(ctx, id)
}

// ListNeedy returns registrations newest first, optionally filtered by review status.
func (s *AidService) ListNeedy(ctx context.Context, actor domain.Actor, statuses []string, limit int) ([]*domain.NeedyRequest, error) {
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionView); err != nil {
		return nil, err
	}
	for _, st := range statuses {
		switch domain.ReviewStatus(st) {
		case domain.ReviewPending, domain.ReviewApproved, domain.ReviewRejected:
		default:
			return nil, fmt.Errorf("%w: %q is not a review status", domain.ErrInvalidStatus, st)
		}
	}
	return s.needy.List(ctx, statuses, clampLimit(limit))
}

// DecideNeedy reviews a pending registration and tells the member the outcome.
// Registrations have no work item, so delivery failures are only logged.
func (s *AidService) DecideNeedy(
	ctx context.Context,
	actor domain.Actor,
	id string,
	status domain.ReviewStatus,
	comment string,
) (*domain.NeedyRequest, error) {
	if !status.IsDecision() {
		return nil, fmt.Errorf("%w: %q is not a review decision", domain.ErrInvalidStatus, status)
	}
	if err := requireField("comment", comment); err != nil {
		return nil, err
	}
	if err := s.guard.Require(actor, domain.TopicAid, domain.ActionDecide); err != nil {
		return nil, err
	}

	n, err := s.needy.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment = strings.TrimSpace(comment)
	n.Status = status
	n.ReviewComment = &comment
	n.ReviewedBy = &actor.ID
	if err := s.needy.Review(ctx, n); err != nil {
		return nil, err
	}

	slog.Info("needy request reviewed",
		"needy_request_id", id,
		"actor_id", actor.ID,
		"status", status,
	)

	text := "Your registration of a person in need was approved."
	if status == domain.ReviewRejected {
		text = fmt.Sprintf("Your registration of a person in need was rejected: %s", comment)
	}
	if err := s.dispatcher.Send(ctx, domain.UserRecipient(n.RequesterUserID), text); err != nil {
		slog.Warn("notification failed",
			"needy_request_id", id,
			"recipient_id", n.RequesterUserID,
			"error", err,
		)
	}

	return n, nil
}
