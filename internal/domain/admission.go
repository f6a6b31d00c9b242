package domain

import (
	"slices"
	"time"
)

// AdmissionStatus is the status of a scholar admission application.
type AdmissionStatus string

const (
	AdmissionPendingIntro     AdmissionStatus = "pending_intro"
	AdmissionMeetingScheduled AdmissionStatus = "meeting_scheduled"
	AdmissionApproved         AdmissionStatus = "approved"
	AdmissionObserver         AdmissionStatus = "observer"
	AdmissionRejected         AdmissionStatus = "rejected"
)

var admissionTransitions = map[AdmissionStatus][]AdmissionStatus{
	AdmissionPendingIntro:     {AdmissionMeetingScheduled, AdmissionApproved, AdmissionObserver, AdmissionRejected},
	AdmissionMeetingScheduled: {AdmissionApproved, AdmissionObserver, AdmissionRejected},
}

// IsValid checks if the status is one of the allowed values.
func (s AdmissionStatus) IsValid() bool {
	switch s {
	case AdmissionPendingIntro, AdmissionMeetingScheduled, AdmissionApproved, AdmissionObserver, AdmissionRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once a decision was recorded.
func (s AdmissionStatus) IsTerminal() bool {
	return s == AdmissionApproved || s == AdmissionObserver || s == AdmissionRejected
}

// IsDecision reports whether s is an outcome a chief may choose.
func (s AdmissionStatus) IsDecision() bool {
	return s.IsTerminal()
}

// CanTransitionTo reports whether the application may move from s to next.
func (s AdmissionStatus) CanTransitionTo(next AdmissionStatus) bool {
	return slices.Contains(admissionTransitions[s], next)
}

// MeetingType is how an introductory meeting is held.
type MeetingType string

const (
	MeetingOnline  MeetingType = "online"
	MeetingOffline MeetingType = "offline"
)

// IsValid checks if the meeting type is one of the allowed values.
func (t MeetingType) IsValid() bool {
	return t == MeetingOnline || t == MeetingOffline
}

const (
	MinAdmissionRoles = 1
	MaxAdmissionRoles = 2
)

// AdmissionApplication is a scholar's request to join the operator pool.
type AdmissionApplication struct {
	ID                    string
	WorkItemID            string
	Status                AdmissionStatus
	ApplicantUserID       string
	FullName              string
	Country               string
	City                  string
	EducationPlace        string
	EducationCompleted    bool
	EducationDetails      string
	KnowledgeAreas        []string
	Experience            string
	MeetingType           *MeetingType
	MeetingLink           *string
	MeetingAt             *time.Time
	DecisionComment       *string
	DecidedBy             *string
	AssignedRoles         []Role
	ResponsibleOperatorID *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
