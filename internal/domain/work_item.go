package domain

import "time"

// Topic identifies the family of work a WorkItem belongs to.
type Topic string

const (
	TopicDispute   Topic = "dispute"
	TopicContract  Topic = "contract"
	TopicAid       Topic = "aid"
	TopicAdmission Topic = "admission"
	TopicGeneric   Topic = "generic"
)

// Topics lists every known topic in display order.
var Topics = []Topic{TopicDispute, TopicContract, TopicAid, TopicAdmission, TopicGeneric}

// IsValid checks if the topic is one of the allowed values.
func (t Topic) IsValid() bool {
	switch t {
	case TopicDispute, TopicContract, TopicAid, TopicAdmission, TopicGeneric:
		return true
	default:
		return false
	}
}

// HasCase reports whether work items of this topic are backed by a case record.
func (t Topic) HasCase() bool {
	return t.IsValid() && t != TopicGeneric
}

// WorkItemKind describes why a work item was raised.
type WorkItemKind string

const (
	KindCaseCreated          WorkItemKind = "case_created"
	KindNeedsReview          WorkItemKind = "needs_review"
	KindModerationIncident   WorkItemKind = "moderation_incident"
	KindRequesterFollowUp    WorkItemKind = "requester_follow_up"
	KindSpecialistEscalation WorkItemKind = "specialist_escalation"
)

// WorkItemStatus represents the queue status of a work item.
type WorkItemStatus string

const (
	StatusNew               WorkItemStatus = "new"
	StatusAssigned          WorkItemStatus = "assigned"
	StatusInProgress        WorkItemStatus = "in_progress"
	StatusWaitingRequester  WorkItemStatus = "waiting_requester"
	StatusWaitingSpecialist WorkItemStatus = "waiting_specialist"
	StatusDone              WorkItemStatus = "done"
	StatusCanceled          WorkItemStatus = "canceled"
)

// WorkItemStatuses lists every status in lifecycle order.
var WorkItemStatuses = []WorkItemStatus{
	StatusNew, StatusAssigned, StatusInProgress,
	StatusWaitingRequester, StatusWaitingSpecialist,
	StatusDone, StatusCanceled,
}

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s WorkItemStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// IsValid checks if the status is one of the allowed values.
func (s WorkItemStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusAssigned, StatusInProgress,
		StatusWaitingRequester, StatusWaitingSpecialist,
		StatusDone, StatusCanceled:
		return true
	default:
		return false
	}
}

// workItemTransitions is the status graph reachable through SetStatus.
// StatusAssigned is absent as a target: only a claim enters it.
var workItemTransitions = map[WorkItemStatus][]WorkItemStatus{
	StatusNew:               {StatusCanceled},
	StatusAssigned:          {StatusInProgress, StatusCanceled},
	StatusInProgress:        {StatusWaitingRequester, StatusWaitingSpecialist, StatusDone, StatusCanceled},
	StatusWaitingRequester:  {StatusInProgress, StatusCanceled},
	StatusWaitingSpecialist: {StatusInProgress, StatusCanceled},
}

// CanTransitionTo reports whether SetStatus may move an item from s to next.
func (s WorkItemStatus) CanTransitionTo(next WorkItemStatus) bool {
	for _, allowed := range workItemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanMoveTo reports whether any operation may move an item from s to next:
// either a SetStatus transition or a claim out of new.
func (s WorkItemStatus) CanMoveTo(next WorkItemStatus) bool {
	return s.CanTransitionTo(next) || (s == StatusNew && next == StatusAssigned)
}

// PathTo returns the shortest chain of moves from s to target, excluding s.
// Every step satisfies CanMoveTo. It returns nil when s is target or when
// target cannot be reached.
func (s WorkItemStatus) PathTo(target WorkItemStatus) []WorkItemStatus {
	if s == target {
		return nil
	}

	prev := map[WorkItemStatus]WorkItemStatus{s: s}
	queue := []WorkItemStatus{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range WorkItemStatuses {
			if _, seen := prev[next]; seen || !cur.CanMoveTo(next) {
				continue
			}
			prev[next] = cur
			if next != target {
				queue = append(queue, next)
				continue
			}

			var path []WorkItemStatus
			for step := next; step != s; step = prev[step] {
				path = append([]WorkItemStatus{step}, path...)
			}
			return path
		}
	}
	return nil
}

const (
	MinPriority     = 0
	MaxPriority     = 10
	DefaultPriority = 5
)

// WorkItem is a queue ticket an operator claims and works to completion.
type WorkItem struct {
	ID              string
	Topic           Topic
	Kind            WorkItemKind
	Status          WorkItemStatus
	Priority        int
	TargetUserID    *string
	AssigneeID      *string
	Payload         CaseLink
	CreatedByUserID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DoneAt          *time.Time
}

// IsAssignedTo checks if the item is assigned to the given operator.
func (w *WorkItem) IsAssignedTo(operatorID string) bool {
	return w.AssigneeID != nil && *w.AssigneeID == operatorID
}

// IsClaimable checks if the item can be claimed.
func (w *WorkItem) IsClaimable() bool {
	return w.Status == StatusNew && w.AssigneeID == nil
}
