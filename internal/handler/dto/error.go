package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/workdesk/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
// Permission failures are checked first: they may wrap operator lookups.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Permission errors
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", message
	case errors.Is(err, domain.ErrNotAssignee):
		return http.StatusForbidden, "FORBIDDEN", message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Work item errors
	case errors.Is(err, domain.ErrAlreadyAssigned):
		return http.StatusConflict, "ALREADY_ASSIGNED", message
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", message

	// Not found
	case errors.Is(err, domain.ErrWorkItemNotFound),
		errors.Is(err, domain.ErrWorkItemHasNoCase),
		errors.Is(err, domain.ErrDisputeNotFound),
		errors.Is(err, domain.ErrContractNotFound),
		errors.Is(err, domain.ErrAidRequestNotFound),
		errors.Is(err, domain.ErrNeedyRequestNotFound),
		errors.Is(err, domain.ErrConfirmationNotFound),
		errors.Is(err, domain.ErrAdmissionNotFound),
		errors.Is(err, domain.ErrEvidenceNotFound),
		errors.Is(err, domain.ErrOperatorNotFound):
		return http.StatusNotFound, "NOT_FOUND", message

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNoUpdates),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidRoleCount),
		errors.Is(err, domain.ErrNoNotificationTarget),
		errors.Is(err, domain.ErrOperatorInactive):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Delivery
	case errors.Is(err, domain.ErrNotificationFailed):
		return http.StatusBadGateway, "NOTIFICATION_FAILED", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
