package domain

// Role is a named operator capability used by the permission table.
type Role string

const (
	RoleOwner               Role = "owner"
	RoleSuperadmin          Role = "superadmin"
	RoleWorkItemsView       Role = "work_items_view"
	RoleWorkItemsManage     Role = "work_items_manage"
	RoleDisputeSpecialist   Role = "dispute_specialist"
	RoleContractSpecialist  Role = "contract_specialist"
	RoleAidSpecialist       Role = "aid_specialist"
	RoleExecutionSpecialist Role = "execution_specialist"
	RoleAdmissionChief      Role = "admission_chief"
	RoleObserver            Role = "observer"
)

// Action is an operation gated by the permission table.
type Action string

const (
	ActionView       Action = "view"
	ActionClaim      Action = "claim"
	ActionAct        Action = "act"
	ActionActAny     Action = "act_any"
	ActionReassign   Action = "reassign"
	ActionCreate     Action = "create"
	ActionSpecialist Action = "specialist"
	ActionDecide     Action = "decide"
	ActionDelete     Action = "delete"
)

// Actor is the authenticated operator performing a call.
type Actor struct {
	ID    string
	Roles []Role
}

// HasRole checks if the actor carries the given role.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// admissionGrantableRoles are the roles an admission decision may attach.
var admissionGrantableRoles = map[Role]bool{
	RoleDisputeSpecialist:   true,
	RoleContractSpecialist:  true,
	RoleAidSpecialist:       true,
	RoleExecutionSpecialist: true,
	RoleAdmissionChief:      true,
}

// IsAdmissionGrantable reports whether an approved applicant may receive the role.
func (r Role) IsAdmissionGrantable() bool {
	return admissionGrantableRoles[r]
}
