package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/workdesk/internal/domain"
)

func TestWorkItemStatus_TransitionTable(t *testing.T) {
	allowed := map[[2]domain.WorkItemStatus]bool{
		{domain.StatusNew, domain.StatusCanceled}:                 true,
		{domain.StatusAssigned, domain.StatusInProgress}:          true,
		{domain.StatusAssigned, domain.StatusCanceled}:            true,
		{domain.StatusInProgress, domain.StatusWaitingRequester}:  true,
		{domain.StatusInProgress, domain.StatusWaitingSpecialist}: true,
		{domain.StatusInProgress, domain.StatusDone}:              true,
		{domain.StatusInProgress, domain.StatusCanceled}:          true,
		{domain.StatusWaitingRequester, domain.StatusInProgress}:  true,
		{domain.StatusWaitingRequester, domain.StatusCanceled}:    true,
		{domain.StatusWaitingSpecialist, domain.StatusInProgress}: true,
		{domain.StatusWaitingSpecialist, domain.StatusCanceled}:   true,
	}

	for _, from := range domain.WorkItemStatuses {
		for _, to := range domain.WorkItemStatuses {
			want := allowed[[2]domain.WorkItemStatus{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestWorkItemStatus_NothingEntersAssigned(t *testing.T) {
	for _, from := range domain.WorkItemStatuses {
		assert.False(t, from.CanTransitionTo(domain.StatusAssigned), "%s -> assigned", from)
	}
}

func TestWorkItemStatus_TerminalHasNoExits(t *testing.T) {
	for _, from := range []domain.WorkItemStatus{domain.StatusDone, domain.StatusCanceled} {
		assert.True(t, from.IsTerminal())
		for _, to := range domain.WorkItemStatuses {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestWorkItemStatus_NonTerminalCanCancel(t *testing.T) {
	for _, from := range domain.WorkItemStatuses {
		if from.IsTerminal() {
			continue
		}
		assert.True(t, from.CanTransitionTo(domain.StatusCanceled), "%s -> canceled", from)
	}
}

func TestWorkItemStatus_PathTo(t *testing.T) {
	tests := []struct {
		from domain.WorkItemStatus
		to   domain.WorkItemStatus
		want []domain.WorkItemStatus
	}{
		{domain.StatusNew, domain.StatusCanceled, []domain.WorkItemStatus{domain.StatusCanceled}},
		{domain.StatusNew, domain.StatusDone, []domain.WorkItemStatus{domain.StatusAssigned, domain.StatusInProgress, domain.StatusDone}},
		{domain.StatusAssigned, domain.StatusWaitingSpecialist, []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusWaitingSpecialist}},
		{domain.StatusWaitingRequester, domain.StatusWaitingSpecialist, []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusWaitingSpecialist}},
		{domain.StatusInProgress, domain.StatusInProgress, nil},
		{domain.StatusDone, domain.StatusInProgress, nil},
		{domain.StatusInProgress, domain.StatusNew, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.PathTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestWorkItemStatus_PathToStepsAreLegal(t *testing.T) {
	for _, from := range domain.WorkItemStatuses {
		for _, to := range domain.WorkItemStatuses {
			prev := from
			for _, step := range from.PathTo(to) {
				assert.True(t, prev.CanMoveTo(step), "%s -> %s via %s -> %s", from, to, prev, step)
				prev = step
			}
		}
	}
}

func TestWorkItem_IsClaimable(t *testing.T) {
	operator := "op-1"

	assert.True(t, (&domain.WorkItem{Status: domain.StatusNew}).IsClaimable())
	assert.False(t, (&domain.WorkItem{Status: domain.StatusNew, AssigneeID: &operator}).IsClaimable())
	assert.False(t, (&domain.WorkItem{Status: domain.StatusAssigned, AssigneeID: &operator}).IsClaimable())
}

func TestCaseLink_Validate(t *testing.T) {
	tests := []struct {
		name    string
		link    domain.CaseLink
		topic   domain.Topic
		wantErr bool
	}{
		{"generic without case", domain.CaseLink{}, domain.TopicGeneric, false},
		{"dispute requires case", domain.CaseLink{}, domain.TopicDispute, true},
		{"matching family", domain.NewCaseLink(domain.TopicAid, "a-1"), domain.TopicAid, false},
		{"family mismatch", domain.NewCaseLink(domain.TopicAid, "a-1"), domain.TopicContract, true},
		{"generic family rejected", domain.NewCaseLink(domain.TopicGeneric, "x"), domain.TopicGeneric, true},
		{"missing case id", domain.CaseLink{Family: domain.TopicDispute}, domain.TopicDispute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.link.Validate(tt.topic)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCaseLink_PayloadKeepsMeta(t *testing.T) {
	link := domain.NewCaseLink(domain.TopicDispute, "d-1")
	link.Meta = map[string]any{"case_number": "CASE-7"}

	data, err := domain.MarshalPayload(link)
	assert.NoError(t, err)

	decoded, err := domain.UnmarshalPayload(data)
	assert.NoError(t, err)
	assert.Equal(t, domain.TopicDispute, decoded.Family)
	assert.Equal(t, "d-1", decoded.CaseID)
	assert.Equal(t, "CASE-7", decoded.Meta["case_number"])

	empty, err := domain.UnmarshalPayload(nil)
	assert.NoError(t, err)
	assert.True(t, empty.IsZero())
}
