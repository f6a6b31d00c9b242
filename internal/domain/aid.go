package domain

import (
	"slices"
	"time"
)

// AidStatus is the status of a charitable aid request.
type AidStatus string

const (
	AidPending            AidStatus = "pending"
	AidNeedsClarification AidStatus = "needs_clarification"
	AidApproved           AidStatus = "approved"
	AidInProgress         AidStatus = "in_progress"
	AidCompleted          AidStatus = "completed"
	AidRejected           AidStatus = "rejected"
)

var aidTransitions = map[AidStatus][]AidStatus{
	AidPending:            {AidNeedsClarification, AidApproved, AidRejected},
	AidNeedsClarification: {AidPending},
	AidApproved:           {AidInProgress, AidCompleted},
	AidInProgress:         {AidCompleted},
}

// IsValid checks if the status is one of the allowed values.
func (s AidStatus) IsValid() bool {
	switch s {
	case AidPending, AidNeedsClarification, AidApproved, AidInProgress, AidCompleted, AidRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the request was completed or rejected.
func (s AidStatus) IsTerminal() bool {
	return s == AidCompleted || s == AidRejected
}

// CanTransitionTo reports whether the request may move from s to next.
func (s AidStatus) CanTransitionTo(next AidStatus) bool {
	return slices.Contains(aidTransitions[s], next)
}

// IsDecision reports whether s is an outcome a reviewer may choose.
func (s AidStatus) IsDecision() bool {
	return s == AidApproved || s == AidNeedsClarification || s == AidRejected
}

// AidCategory is the fund an approved request is paid from.
type AidCategory string

const (
	AidCategoryZakat  AidCategory = "zakat"
	AidCategoryFitr   AidCategory = "fitr"
	AidCategorySadaqa AidCategory = "sadaqa"
)

// IsValid checks if the category is one of the allowed values.
func (c AidCategory) IsValid() bool {
	switch c {
	case AidCategoryZakat, AidCategoryFitr, AidCategorySadaqa:
		return true
	default:
		return false
	}
}

// AidRequest is a member's request for charitable aid.
type AidRequest struct {
	ID                      string
	WorkItemID              string
	Status                  AidStatus
	RequesterUserID         string
	Title                   string
	Description             string
	City                    string
	Country                 string
	Category                string
	HelpType                string
	Amount                  *int64
	ClarificationText       *string
	ClarificationAttachment *string
	ReviewComment           *string
	ReviewedBy              *string
	ApprovedCategory        *AidCategory
	Specialist              SpecialistContact
	ResponsibleOperatorID   *string
	ApprovedAt              *time.Time
	CompletedAt             *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ReviewStatus is the status shared by needy registrations and confirmations.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// IsDecision reports whether s is a final review outcome.
func (s ReviewStatus) IsDecision() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// NeedyPersonType classifies who a needy registration is for.
type NeedyPersonType string

const (
	NeedyIndividual NeedyPersonType = "individual"
	NeedyFamily     NeedyPersonType = "family"
	NeedyOrphan     NeedyPersonType = "orphan"
	NeedyStudent    NeedyPersonType = "student"
)

// IsValid checks if the person type is one of the allowed values.
func (t NeedyPersonType) IsValid() bool {
	switch t {
	case NeedyIndividual, NeedyFamily, NeedyOrphan, NeedyStudent:
		return true
	default:
		return false
	}
}

// NeedyRequest registers a person as eligible to receive aid.
type NeedyRequest struct {
	ID              string
	RequesterUserID string
	PersonType      NeedyPersonType
	City            string
	Country         string
	Reason          string
	AllowZakat      bool
	AllowFitr       bool
	SadaqaOnly      bool
	Status          ReviewStatus
	ReviewComment   *string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Confirmation is the requester's proof that approved aid was received or spent.
type Confirmation struct {
	ID              string
	AidRequestID    string
	RequesterUserID string
	Text            string
	Attachment      *string
	Status          ReviewStatus
	ReviewComment   *string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
}
