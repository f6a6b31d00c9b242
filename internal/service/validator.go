package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mtlprog/workdesk/internal/config"
	"github.com/mtlprog/workdesk/internal/domain"
)

// validateComment checks a free-text operator message.
func validateComment(message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.ErrEmptyComment
	}
	if n := utf8.RuneCountInString(message); n > config.MaxCommentLength {
		return fmt.Errorf("%w: message is %d characters, limit is %d", domain.ErrValidation, n, config.MaxCommentLength)
	}
	return nil
}

func validatePriority(priority *int) error {
	if priority == nil {
		return nil
	}
	if *priority < domain.MinPriority || *priority > domain.MaxPriority {
		return fmt.Errorf("%w: %d is outside %d..%d", domain.ErrInvalidPriority, *priority, domain.MinPriority, domain.MaxPriority)
	}
	return nil
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	return nil
}

// clampLimit applies the default and maximum page size.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return config.DefaultListLimit
	case limit > config.MaxListLimit:
		return config.MaxListLimit
	default:
		return limit
	}
}

// validateCaseStatuses checks a status filter against the family's enum.
func validateCaseStatuses(family domain.Topic, statuses []string) error {
	for _, s := range statuses {
		if !domain.IsValidCaseStatus(family, s) {
			return fmt.Errorf("%w: %q is not a %s status", domain.ErrInvalidStatus, s, family)
		}
	}
	return nil
}

// ValidateAidDecision checks a reviewer decision on an aid request.
func ValidateAidDecision(status domain.AidStatus, comment string, category *domain.AidCategory) error {
	if !status.IsDecision() {
		return fmt.Errorf("%w: %q is not an aid decision", domain.ErrInvalidStatus, status)
	}
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("%w: review comment is required", domain.ErrValidation)
	}
	if status == domain.AidApproved {
		if category == nil || *category == "" {
			return fmt.Errorf("%w: approved_category is required to approve", domain.ErrValidation)
		}
		if !category.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, *category)
		}
	}
	return nil
}

// ValidateAdmissionDecision checks a decision on an admission application and
// returns the roles to store: the submitted set for approved, [observer] for
// observer, none for rejected.
func ValidateAdmissionDecision(status domain.AdmissionStatus, comment string, roles []domain.Role) ([]domain.Role, error) {
	if !status.IsDecision() {
		return nil, fmt.Errorf("%w: %q is not an admission decision", domain.ErrInvalidStatus, status)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: decision comment is required", domain.ErrValidation)
	}

	switch status {
	case domain.AdmissionObserver:
		return []domain.Role{domain.RoleObserver}, nil
	case domain.AdmissionRejected:
		return []domain.Role{}, nil
	}

	if len(roles) < domain.MinAdmissionRoles || len(roles) > domain.MaxAdmissionRoles {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidRoleCount, len(roles))
	}
	seen := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		if !role.IsAdmissionGrantable() {
			return nil, fmt.Errorf("%w: role %q cannot be granted on admission", domain.ErrValidation, role)
		}
		if seen[role] {
			return nil, fmt.Errorf("%w: role %q listed twice", domain.ErrValidation, role)
		}
		seen[role] = true
	}
	return roles, nil
}

// ValidateMeeting checks an admission interview schedule.
func ValidateMeeting(meetingType domain.MeetingType, link *string, at time.Time) error {
	if !meetingType.IsValid() {
		return fmt.Errorf("%w: unknown meeting type %q", domain.ErrValidation, meetingType)
	}
	if meetingType == domain.MeetingOnline && (link == nil || strings.TrimSpace(*link) == "") {
		return fmt.Errorf("%w: online meetings need a link", domain.ErrValidation)
	}
	if at.IsZero() {
		return fmt.Errorf("%w: meeting time is required", domain.ErrValidation)
	}
	return nil
}
