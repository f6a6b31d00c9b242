package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/workdesk/internal/authz"
	"github.com/mtlprog/workdesk/internal/domain"
)

func TestGuard_CanActOn(t *testing.T) {
	g := NewGuard(authz.Default())
	assignee := "op-1"
	item := &domain.WorkItem{ID: "w-1", Topic: domain.TopicAid, Status: domain.StatusInProgress, AssigneeID: &assignee}

	owner := domain.Actor{ID: "op-admin", Roles: []domain.Role{domain.RoleOwner}}
	assert.NoError(t, g.CanActOn(owner, item))

	self := domain.Actor{ID: "op-1", Roles: []domain.Role{domain.RoleAidSpecialist}}
	assert.NoError(t, g.CanActOn(self, item))

	other := domain.Actor{ID: "op-2", Roles: []domain.Role{domain.RoleAidSpecialist}}
	assert.ErrorIs(t, g.CanActOn(other, item), domain.ErrNotAssignee)

	wrongTopic := domain.Actor{ID: "op-1", Roles: []domain.Role{domain.RoleContractSpecialist}}
	assert.ErrorIs(t, g.CanActOn(wrongTopic, item), domain.ErrForbidden)
}

func TestGuard_CanEditCase(t *testing.T) {
	g := NewGuard(authz.Default())
	item := &domain.WorkItem{ID: "w-1", Topic: domain.TopicContract, Status: domain.StatusNew}
	specialist := domain.Actor{ID: "op-5", Roles: []domain.Role{domain.RoleContractSpecialist}}

	assert.NoError(t, g.CanEditCase(specialist, item, true))
	assert.ErrorIs(t, g.CanEditCase(specialist, item, false), domain.ErrForbidden)
}

func TestGuard_VisibleTopics(t *testing.T) {
	g := NewGuard(authz.Default())
	chief := domain.Actor{ID: "op-c", Roles: []domain.Role{domain.RoleAdmissionChief}}

	topics, err := g.VisibleTopics(chief, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Topic{domain.TopicAid, domain.TopicAdmission}, topics)

	admission := domain.TopicAdmission
	topics, err = g.VisibleTopics(chief, &admission)
	require.NoError(t, err)
	assert.Equal(t, []domain.Topic{domain.TopicAdmission}, topics)

	dispute := domain.TopicDispute
	_, err = g.VisibleTopics(chief, &dispute)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	unknown := domain.Topic("lottery")
	_, err = g.VisibleTopics(chief, &unknown)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGuard_Require(t *testing.T) {
	g := NewGuard(authz.Default())
	manager := domain.Actor{ID: "op-1", Roles: []domain.Role{domain.RoleWorkItemsManage}}

	assert.NoError(t, g.Require(manager, domain.TopicDispute, domain.ActionClaim))
	assert.ErrorIs(t, g.Require(manager, domain.TopicDispute, domain.ActionReassign), domain.ErrForbidden)
	assert.ErrorIs(t, g.Require(manager, domain.TopicContract, domain.ActionDelete), domain.ErrForbidden)
	assert.False(t, g.IsElevated(manager))
	assert.True(t, g.IsElevated(domain.Actor{ID: "x", Roles: []domain.Role{domain.RoleSuperadmin}}))
}
