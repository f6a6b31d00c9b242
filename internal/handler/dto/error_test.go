package dto_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrWorkItemNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("sync: %w", domain.ErrContractNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrEvidenceNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrAlreadyAssigned, http.StatusConflict, "ALREADY_ASSIGNED"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrNotAssignee, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: %w", domain.ErrForbidden, domain.ErrOperatorNotFound), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrOperatorInactive), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{domain.ErrInvalidRoleCount, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{domain.ErrEmptyComment, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{domain.ErrNoUpdates, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{domain.ErrNotificationFailed, http.StatusBadGateway, "NOTIFICATION_FAILED"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, message := dto.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestMapDomainError_HidesInternalDetail(t *testing.T) {
	_, _, message := dto.MapDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", message)
}
