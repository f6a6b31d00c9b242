package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Work item errors
	ErrWorkItemNotFound     = errors.New("work item not found")
	ErrAlreadyAssigned      = errors.New("work item already assigned")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrWorkItemHasNoCase    = errors.New("work item has no linked case")
	ErrNoNotificationTarget = errors.New("work item has no target user")

	// Case errors
	ErrDisputeNotFound      = errors.New("dispute not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrAidRequestNotFound   = errors.New("aid request not found")
	ErrNeedyRequestNotFound = errors.New("needy request not found")
	ErrConfirmationNotFound = errors.New("confirmation not found")
	ErrAdmissionNotFound    = errors.New("admission application not found")
	ErrEvidenceNotFound     = errors.New("evidence not found")

	// Operator errors
	ErrOperatorNotFound = errors.New("operator not found")
	ErrOperatorInactive = errors.New("operator is inactive")

	// Permission errors
	ErrForbidden    = errors.New("forbidden")
	ErrNotAssignee  = errors.New("not the assignee")
	ErrInvalidToken = errors.New("invalid authentication token")

	// Validation errors
	ErrValidation       = errors.New("validation failed")
	ErrNoUpdates        = errors.New("no fields to update")
	ErrEmptyComment     = errors.New("comment is required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidCategory  = errors.New("invalid approved category")
	ErrInvalidRoleCount = errors.New("approval requires one or two roles")

	// Notification errors
	ErrNotificationFailed = errors.New("notification failed")
)
