package domain

import "time"

// EventType represents the type of work item event.
type EventType string

const (
	EventTypeCreated       EventType = "created"
	EventTypeAssigned      EventType = "assigned"
	EventTypeStatusChanged EventType = "status_changed"
	EventTypeComment       EventType = "comment"
	EventTypeNotified      EventType = "notified"
	EventTypeCaseUpdated   EventType = "case_updated"
)

// Event represents an audit log entry for a work item action.
type Event struct {
	ID         string
	WorkItemID string
	Type       EventType
	Message    string
	ActorID    *string // nil for requester and system events
	OldStatus  *WorkItemStatus
	NewStatus  *WorkItemStatus
	CreatedAt  time.Time
}

// IsSystemEvent returns true if no operator performed the action.
func (e *Event) IsSystemEvent() bool {
	return e.ActorID == nil
}
