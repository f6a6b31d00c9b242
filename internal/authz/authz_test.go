package authz_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/workdesk/internal/authz"
	"github.com/mtlprog/workdesk/internal/domain"
)

func TestDefault_ElevatedSatisfiesEverything(t *testing.T) {
	table := authz.Default()

	for _, role := range []domain.Role{domain.RoleOwner, domain.RoleSuperadmin} {
		for _, topic := range domain.Topics {
			for _, action := range []domain.Action{
				domain.ActionView, domain.ActionClaim, domain.ActionActAny,
				domain.ActionReassign, domain.ActionDelete, domain.ActionDecide,
			} {
				assert.True(t, table.Authorize([]domain.Role{role}, topic, action), "%s %s %s", role, topic, action)
			}
		}
	}
}

func TestDefault_RoleGrants(t *testing.T) {
	table := authz.Default()

	tests := []struct {
		role   domain.Role
		topic  domain.Topic
		action domain.Action
		want   bool
	}{
		{domain.RoleWorkItemsView, domain.TopicContract, domain.ActionView, true},
		{domain.RoleWorkItemsView, domain.TopicContract, domain.ActionClaim, false},
		{domain.RoleWorkItemsManage, domain.TopicDispute, domain.ActionClaim, true},
		{domain.RoleWorkItemsManage, domain.TopicDispute, domain.ActionAct, true},
		{domain.RoleWorkItemsManage, domain.TopicDispute, domain.ActionActAny, false},
		{domain.RoleWorkItemsManage, domain.TopicDispute, domain.ActionReassign, false},
		{domain.RoleWorkItemsManage, domain.TopicDispute, domain.ActionSpecialist, false},
		{domain.RoleDisputeSpecialist, domain.TopicDispute, domain.ActionSpecialist, true},
		{domain.RoleDisputeSpecialist, domain.TopicContract, domain.ActionSpecialist, false},
		{domain.RoleAidSpecialist, domain.TopicAid, domain.ActionDecide, true},
		{domain.RoleAdmissionChief, domain.TopicAdmission, domain.ActionDecide, true},
		{domain.RoleAdmissionChief, domain.TopicDispute, domain.ActionView, false},
		{domain.RoleObserver, domain.TopicAdmission, domain.ActionView, true},
		{domain.RoleObserver, domain.TopicAdmission, domain.ActionAct, false},
		{domain.Role("unknown"), domain.TopicGeneric, domain.ActionView, false},
	}

	for _, tt := range tests {
		got := table.Authorize([]domain.Role{tt.role}, tt.topic, tt.action)
		assert.Equal(t, tt.want, got, "%s %s %s", tt.role, tt.topic, tt.action)
	}
}

func TestAuthorize_UnionOfRoles(t *testing.T) {
	table := authz.Default()
	roles := []domain.Role{domain.RoleObserver, domain.RoleContractSpecialist}

	assert.True(t, table.Authorize(roles, domain.TopicAid, domain.ActionView))
	assert.True(t, table.Authorize(roles, domain.TopicContract, domain.ActionSpecialist))
	assert.False(t, table.Authorize(roles, domain.TopicDispute, domain.ActionView))
	assert.False(t, table.Authorize(nil, domain.TopicDispute, domain.ActionView))
}

func TestVisibleTopics(t *testing.T) {
	table := authz.Default()

	assert.Equal(t, domain.Topics, table.VisibleTopics([]domain.Role{domain.RoleWorkItemsView}))
	assert.Equal(t,
		[]domain.Topic{domain.TopicAid, domain.TopicAdmission},
		table.VisibleTopics([]domain.Role{domain.RoleAdmissionChief}),
	)
	assert.Empty(t, table.VisibleTopics(nil))
}

func TestParse_RejectsUnknownEntries(t *testing.T) {
	_, err := authz.Parse([]byte("roles:\n  r:\n    nowhere: [view]\n"))
	assert.Error(t, err)

	_, err = authz.Parse([]byte("roles:\n  r:\n    dispute: [fly]\n"))
	assert.Error(t, err)

	_, err = authz.Parse([]byte("roles: [broken"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.yaml")
	content := "elevated: [boss]\nroles:\n  clerk:\n    generic: [view, act]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := authz.Load(path)
	require.NoError(t, err)

	assert.True(t, table.IsElevated([]domain.Role{"boss"}))
	assert.False(t, table.IsElevated([]domain.Role{domain.RoleOwner}))
	assert.True(t, table.Authorize([]domain.Role{"clerk"}, domain.TopicGeneric, domain.ActionAct))
	assert.False(t, table.Authorize([]domain.Role{"clerk"}, domain.TopicAid, domain.ActionView))

	_, err = authz.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
