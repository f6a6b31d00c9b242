package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/workdesk/internal/config"
	"github.com/mtlprog/workdesk/internal/domain"
)

func TestValidateComment(t *testing.T) {
	assert.ErrorIs(t, validateComment(""), domain.ErrEmptyComment)
	assert.ErrorIs(t, validateComment(" \n\t"), domain.ErrEmptyComment)
	assert.NoError(t, validateComment("ok"))

	// Limit counts runes, not bytes.
	assert.NoError(t, validateComment(strings.Repeat("ж", config.MaxCommentLength)))
	assert.ErrorIs(t, validateComment(strings.Repeat("a", config.MaxCommentLength+1)), domain.ErrValidation)
}

func TestValidatePriority(t *testing.T) {
	low, high, bad := 0, 10, 11
	neg := -1

	assert.NoError(t, validatePriority(nil))
	assert.NoError(t, validatePriority(&low))
	assert.NoError(t, validatePriority(&high))
	assert.ErrorIs(t, validatePriority(&bad), domain.ErrInvalidPriority)
	assert.ErrorIs(t, validatePriority(&neg), domain.ErrInvalidPriority)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, config.DefaultListLimit, clampLimit(0))
	assert.Equal(t, config.DefaultListLimit, clampLimit(-5))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, config.MaxListLimit, clampLimit(config.MaxListLimit+1))
}

func TestValidateCaseStatuses(t *testing.T) {
	assert.NoError(t, validateCaseStatuses(domain.TopicDispute, []string{"open", "closed"}))
	assert.ErrorIs(t, validateCaseStatuses(domain.TopicDispute, []string{"sent"}), domain.ErrInvalidStatus)
	assert.NoError(t, validateCaseStatuses(domain.TopicContract, []string{"sent"}))
}

func TestValidateAidDecision(t *testing.T) {
	zakat := domain.AidCategoryZakat
	bogus := domain.AidCategory("waqf")

	tests := []struct {
		name     string
		status   domain.AidStatus
		comment  string
		category *domain.AidCategory
		wantErr  error
	}{
		{"approved with category", domain.AidApproved, "ok", &zakat, nil},
		{"approved without category", domain.AidApproved, "ok", nil, domain.ErrValidation},
		{"approved with unknown category", domain.AidApproved, "ok", &bogus, domain.ErrInvalidCategory},
		{"rejected", domain.AidRejected, "not eligible", nil, nil},
		{"clarification", domain.AidNeedsClarification, "send lease", nil, nil},
		{"missing comment", domain.AidRejected, "  ", nil, domain.ErrValidation},
		{"not a decision", domain.AidCompleted, "done", nil, domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAidDecision(tt.status, tt.comment, tt.category)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAdmissionDecision(t *testing.T) {
	roles, err := ValidateAdmissionDecision(domain.AdmissionObserver, "later", []domain.Role{domain.RoleAidSpecialist})
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleObserver}, roles)

	roles, err = ValidateAdmissionDecision(domain.AdmissionRejected, "no", nil)
	require.NoError(t, err)
	assert.Empty(t, roles)

	roles, err = ValidateAdmissionDecision(domain.AdmissionApproved, "yes", []domain.Role{domain.RoleDisputeSpecialist})
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleDisputeSpecialist}, roles)

	_, err = ValidateAdmissionDecision(domain.AdmissionApproved, "yes", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRoleCount)

	_, err = ValidateAdmissionDecision(domain.AdmissionApproved, "yes", []domain.Role{
		domain.RoleDisputeSpecialist, domain.RoleAidSpecialist, domain.RoleContractSpecialist,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRoleCount)

	_, err = ValidateAdmissionDecision(domain.AdmissionApproved, "yes", []domain.Role{domain.RoleOwner})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ValidateAdmissionDecision(domain.AdmissionApproved, "yes", []domain.Role{
		domain.RoleAidSpecialist, domain.RoleAidSpecialist,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ValidateAdmissionDecision(domain.AdmissionPendingIntro, "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = ValidateAdmissionDecision(domain.AdmissionApproved, "", []domain.Role{domain.RoleAidSpecialist})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateMeeting(t *testing.T) {
	link := "https://meet.example.org/x"
	at := time.Now().Add(time.Hour)

	assert.NoError(t, ValidateMeeting(domain.MeetingOnline, &link, at))
	assert.NoError(t, ValidateMeeting(domain.MeetingOffline, nil, at))
	assert.ErrorIs(t, ValidateMeeting(domain.MeetingOnline, nil, at), domain.ErrValidation)
	assert.ErrorIs(t, ValidateMeeting("phone", nil, at), domain.ErrValidation)
	assert.ErrorIs(t, ValidateMeeting(domain.MeetingOffline, nil, time.Time{}), domain.ErrValidation)
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	start, err := PeriodStart("", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), start)

	start, err = PeriodStart("day", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -1), start)

	start, err = PeriodStart("month", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC), start)

	start, err = PeriodStart("all", now)
	require.NoError(t, err)
	assert.True(t, start.IsZero())

	_, err = PeriodStart("year", now)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
