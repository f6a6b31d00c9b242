package domain

// caseFlow describes one case family's status machine and how it lines up
// with the work item queue statuses.
type caseFlow struct {
	valid   func(status string) bool
	allowed func(from, to string) bool
	// forward maps a new work item status to the case status it implies.
	forward map[WorkItemStatus]string
	// inverse maps a new case status to the work item status it implies.
	inverse map[string]WorkItemStatus
}

var caseFlows = map[Topic]caseFlow{
	TopicDispute: {
		valid:   func(s string) bool { return DisputeStatus(s).IsValid() },
		allowed: func(from, to string) bool { return DisputeStatus(from).CanTransitionTo(DisputeStatus(to)) },
		forward: map[WorkItemStatus]string{
			StatusAssigned:          string(DisputeInProgress),
			StatusInProgress:        string(DisputeInProgress),
			StatusWaitingRequester:  string(DisputeInProgress),
			StatusWaitingSpecialist: string(DisputeInProgress),
			StatusDone:              string(DisputeClosed),
			StatusCanceled:          string(DisputeCancelled),
		},
		inverse: map[string]WorkItemStatus{
			string(DisputeInProgress): StatusInProgress,
			string(DisputeClosed):     StatusDone,
			string(DisputeCancelled):  StatusCanceled,
		},
	},
	TopicContract: {
		valid:   func(s string) bool { return ContractStatus(s).IsValid() },
		allowed: func(from, to string) bool { return ContractStatus(from).CanTransitionTo(ContractStatus(to)) },
		forward: map[WorkItemStatus]string{
			StatusWaitingRequester:  string(ContractSentToParty),
			StatusWaitingSpecialist: string(ContractSentToSpecialist),
			StatusDone:              string(ContractSent),
		},
		inverse: map[string]WorkItemStatus{
			string(ContractConfirmed):             StatusInProgress,
			string(ContractSentToParty):           StatusWaitingRequester,
			string(ContractPartyApproved):         StatusInProgress,
			string(ContractPartyChangesRequested): StatusInProgress,
			string(ContractSigned):                StatusInProgress,
			string(ContractSentToSpecialist):      StatusWaitingSpecialist,
			string(ContractSpecialistSendFailed):  StatusInProgress,
			string(ContractSent):                  StatusDone,
		},
	},
	TopicAid: {
		valid:   func(s string) bool { return AidStatus(s).IsValid() },
		allowed: func(from, to string) bool { return AidStatus(from).CanTransitionTo(AidStatus(to)) },
		forward: map[WorkItemStatus]string{
			StatusInProgress: string(AidInProgress),
			StatusDone:       string(AidCompleted),
			StatusCanceled:   string(AidRejected),
		},
		inverse: map[string]WorkItemStatus{
			string(AidPending):            StatusInProgress,
			string(AidNeedsClarification): StatusWaitingRequester,
			string(AidApproved):           StatusInProgress,
			string(AidInProgress):         StatusInProgress,
			string(AidCompleted):          StatusDone,
			string(AidRejected):           StatusCanceled,
		},
	},
	TopicAdmission: {
		valid:   func(s string) bool { return AdmissionStatus(s).IsValid() },
		allowed: func(from, to string) bool { return AdmissionStatus(from).CanTransitionTo(AdmissionStatus(to)) },
		forward: map[WorkItemStatus]string{
			StatusCanceled: string(AdmissionRejected),
		},
		inverse: map[string]WorkItemStatus{
			string(AdmissionMeetingScheduled): StatusWaitingRequester,
			string(AdmissionApproved):         StatusDone,
			string(AdmissionObserver):         StatusDone,
			string(AdmissionRejected):         StatusCanceled,
		},
	},
}

// IsValidCaseStatus reports whether status belongs to the family's status enum.
func IsValidCaseStatus(family Topic, status string) bool {
	flow, ok := caseFlows[family]
	return ok && flow.valid(status)
}

// CaseTransitionAllowed reports whether a case of the family may move from one status to another.
func CaseTransitionAllowed(family Topic, from, to string) bool {
	flow, ok := caseFlows[family]
	return ok && flow.allowed(from, to)
}

// CaseStatusForItem returns the case status implied by the linked work item
// moving to itemStatus. It reports false when no mapping applies, when the case
// already has that status, or when the case machine forbids the move.
func CaseStatusForItem(family Topic, current string, itemStatus WorkItemStatus) (string, bool) {
	flow, ok := caseFlows[family]
	if !ok {
		return "", false
	}
	next, ok := flow.forward[itemStatus]
	if !ok || next == current || !flow.allowed(current, next) {
		return "", false
	}
	return next, true
}

// ItemPathForCase returns the statuses the linked work item walks through,
// in order, after its case moved to caseStatus. Each step is a legal move, so
// an unclaimed item heading anywhere but canceled is claimed on the way.
// A terminal item never moves, and no path ends in new or assigned.
func ItemPathForCase(family Topic, current WorkItemStatus, caseStatus string) []WorkItemStatus {
	if current.IsTerminal() {
		return nil
	}
	flow, ok := caseFlows[family]
	if !ok {
		return nil
	}
	target, ok := flow.inverse[caseStatus]
	if !ok || target == StatusNew || target == StatusAssigned {
		return nil
	}
	return current.PathTo(target)
}
