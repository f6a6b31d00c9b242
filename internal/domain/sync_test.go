package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/workdesk/internal/domain"
)

func TestCaseStatusForItem(t *testing.T) {
	tests := []struct {
		name    string
		family  domain.Topic
		current string
		item    domain.WorkItemStatus
		want    string
		ok      bool
	}{
		{"dispute claimed", domain.TopicDispute, "open", domain.StatusAssigned, "in_progress", true},
		{"dispute already in progress", domain.TopicDispute, "in_progress", domain.StatusInProgress, "", false},
		{"dispute done closes", domain.TopicDispute, "in_progress", domain.StatusDone, "closed", true},
		{"dispute done keeps cancelled", domain.TopicDispute, "cancelled", domain.StatusDone, "", false},
		{"dispute canceled", domain.TopicDispute, "open", domain.StatusCanceled, "cancelled", true},
		{"contract done sends", domain.TopicContract, "signed", domain.StatusDone, "sent", true},
		{"contract done from draft", domain.TopicContract, "draft", domain.StatusDone, "sent", true},
		{"contract waiting specialist", domain.TopicContract, "signed", domain.StatusWaitingSpecialist, "sent_to_specialist", true},
		{"contract waiting specialist too early", domain.TopicContract, "draft", domain.StatusWaitingSpecialist, "", false},
		{"contract waiting requester", domain.TopicContract, "confirmed", domain.StatusWaitingRequester, "sent_to_party", true},
		{"contract in progress unmapped", domain.TopicContract, "confirmed", domain.StatusInProgress, "", false},
		{"aid done completes approved", domain.TopicAid, "approved", domain.StatusDone, "completed", true},
		{"aid done ignores pending", domain.TopicAid, "pending", domain.StatusDone, "", false},
		{"aid canceled rejects pending", domain.TopicAid, "pending", domain.StatusCanceled, "rejected", true},
		{"aid in progress after approval", domain.TopicAid, "approved", domain.StatusInProgress, "in_progress", true},
		{"admission canceled rejects", domain.TopicAdmission, "meeting_scheduled", domain.StatusCanceled, "rejected", true},
		{"admission done unmapped", domain.TopicAdmission, "pending_intro", domain.StatusDone, "", false},
		{"generic has no flow", domain.TopicGeneric, "", domain.StatusDone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.CaseStatusForItem(tt.family, tt.current, tt.item)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemPathForCase(t *testing.T) {
	tests := []struct {
		name    string
		family  domain.Topic
		current domain.WorkItemStatus
		status  string
		want    []domain.WorkItemStatus
	}{
		{"dispute closed", domain.TopicDispute, domain.StatusInProgress, "closed", []domain.WorkItemStatus{domain.StatusDone}},
		{"dispute closed from assigned", domain.TopicDispute, domain.StatusAssigned, "closed", []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusDone}},
		{"dispute open unmapped", domain.TopicDispute, domain.StatusAssigned, "open", nil},
		{"terminal item never moves", domain.TopicDispute, domain.StatusDone, "cancelled", nil},
		{"contract sent", domain.TopicContract, domain.StatusInProgress, "sent", []domain.WorkItemStatus{domain.StatusDone}},
		{"contract sent from new", domain.TopicContract, domain.StatusNew, "sent", []domain.WorkItemStatus{domain.StatusAssigned, domain.StatusInProgress, domain.StatusDone}},
		{"contract sent to party", domain.TopicContract, domain.StatusInProgress, "sent_to_party", []domain.WorkItemStatus{domain.StatusWaitingRequester}},
		{"contract sent to party from assigned", domain.TopicContract, domain.StatusAssigned, "sent_to_party", []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusWaitingRequester}},
		{"contract sent to specialist while waiting requester", domain.TopicContract, domain.StatusWaitingRequester, "sent_to_specialist", []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusWaitingSpecialist}},
		{"contract draft unmapped", domain.TopicContract, domain.StatusNew, "draft", nil},
		{"aid clarification waits requester", domain.TopicAid, domain.StatusInProgress, "needs_clarification", []domain.WorkItemStatus{domain.StatusWaitingRequester}},
		{"aid approved from new", domain.TopicAid, domain.StatusNew, "approved", []domain.WorkItemStatus{domain.StatusAssigned, domain.StatusInProgress}},
		{"aid completed while waiting requester", domain.TopicAid, domain.StatusWaitingRequester, "completed", []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusDone}},
		{"aid same status", domain.TopicAid, domain.StatusInProgress, "pending", nil},
		{"aid rejected from new cancels directly", domain.TopicAid, domain.StatusNew, "rejected", []domain.WorkItemStatus{domain.StatusCanceled}},
		{"admission meeting", domain.TopicAdmission, domain.StatusAssigned, "meeting_scheduled", []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusWaitingRequester}},
		{"admission observer", domain.TopicAdmission, domain.StatusWaitingRequester, "observer", []domain.WorkItemStatus{domain.StatusInProgress, domain.StatusDone}},
		{"admission approved from new", domain.TopicAdmission, domain.StatusNew, "approved", []domain.WorkItemStatus{domain.StatusAssigned, domain.StatusInProgress, domain.StatusDone}},
		{"admission rejected", domain.TopicAdmission, domain.StatusNew, "rejected", []domain.WorkItemStatus{domain.StatusCanceled}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ItemPathForCase(tt.family, tt.current, tt.status))
		})
	}
}

var caseStatuses = map[domain.Topic][]string{
	domain.TopicDispute:   {"open", "in_progress", "closed", "cancelled"},
	domain.TopicContract:  {"draft", "confirmed", "sent_to_party", "party_approved", "party_changes_requested", "signed", "sent_to_specialist", "specialist_send_failed", "sent"},
	domain.TopicAid:       {"pending", "needs_clarification", "approved", "in_progress", "completed", "rejected"},
	domain.TopicAdmission: {"pending_intro", "meeting_scheduled", "approved", "observer", "rejected"},
}

func TestItemPathForCase_EveryStepIsLegal(t *testing.T) {
	for family, statuses := range caseStatuses {
		for _, cs := range statuses {
			assert.True(t, domain.IsValidCaseStatus(family, cs), "%s/%s", family, cs)
			for _, item := range domain.WorkItemStatuses {
				path := domain.ItemPathForCase(family, item, cs)
				if len(path) == 0 {
					continue
				}

				assert.False(t, item.IsTerminal(), "%s/%s from %s", family, cs, item)
				from := item
				for _, step := range path {
					assert.True(t, from.CanMoveTo(step), "%s/%s: %s -> %s", family, cs, from, step)
					if from != domain.StatusNew || step != domain.StatusAssigned {
						assert.True(t, from.CanTransitionTo(step), "%s/%s: %s -> %s", family, cs, from, step)
					}
					from = step
				}

				end := path[len(path)-1]
				assert.NotEqual(t, domain.StatusNew, end)
				assert.NotEqual(t, domain.StatusAssigned, end)
			}
		}
	}
}

func TestCaseTransitionAllowed(t *testing.T) {
	assert.True(t, domain.CaseTransitionAllowed(domain.TopicDispute, "open", "closed"))
	assert.False(t, domain.CaseTransitionAllowed(domain.TopicDispute, "closed", "open"))
	assert.True(t, domain.CaseTransitionAllowed(domain.TopicContract, "specialist_send_failed", "sent"))
	assert.False(t, domain.CaseTransitionAllowed(domain.TopicContract, "sent", "draft"))
	assert.True(t, domain.CaseTransitionAllowed(domain.TopicAid, "needs_clarification", "pending"))
	assert.False(t, domain.CaseTransitionAllowed(domain.TopicAid, "rejected", "approved"))
	assert.False(t, domain.CaseTransitionAllowed(domain.TopicAdmission, "approved", "rejected"))
	assert.False(t, domain.CaseTransitionAllowed(domain.TopicGeneric, "a", "b"))
}
