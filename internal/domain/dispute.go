package domain

import (
	"slices"
	"time"
)

// DisputeStatus is the status of a court dispute case.
type DisputeStatus string

const (
	DisputeOpen       DisputeStatus = "open"
	DisputeInProgress DisputeStatus = "in_progress"
	DisputeClosed     DisputeStatus = "closed"
	DisputeCancelled  DisputeStatus = "cancelled"
)

var disputeTransitions = map[DisputeStatus][]DisputeStatus{
	DisputeOpen:       {DisputeInProgress, DisputeClosed, DisputeCancelled},
	DisputeInProgress: {DisputeClosed, DisputeCancelled},
}

// IsValid checks if the status is one of the allowed values.
func (s DisputeStatus) IsValid() bool {
	switch s {
	case DisputeOpen, DisputeInProgress, DisputeClosed, DisputeCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the case is closed or cancelled.
func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeClosed || s == DisputeCancelled
}

// CanTransitionTo reports whether the case may move from s to next.
func (s DisputeStatus) CanTransitionTo(next DisputeStatus) bool {
	return slices.Contains(disputeTransitions[s], next)
}

// EvidenceFile references a file held by the evidence store.
type EvidenceFile struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// SpecialistContact holds the external specialist a case was handed to.
type SpecialistContact struct {
	Name    *string
	Contact *string
	UserID  *string
}

// DisputeCase is a court dispute raised by a member.
type DisputeCase struct {
	ID                    string
	WorkItemID            string
	CaseNumber            string
	Status                DisputeStatus
	RequesterUserID       string
	Category              string
	Plaintiff             string
	Defendant             string
	Claim                 string
	Amount                *int64
	Evidence              []EvidenceFile
	Specialist            SpecialistContact
	ResponsibleOperatorID *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
