package domain

import (
	"slices"
	"time"
)

// ContractStatus is the status of a contract drafted for a member.
type ContractStatus string

const (
	ContractDraft                 ContractStatus = "draft"
	ContractConfirmed             ContractStatus = "confirmed"
	ContractSentToParty           ContractStatus = "sent_to_party"
	ContractPartyApproved         ContractStatus = "party_approved"
	ContractPartyChangesRequested ContractStatus = "party_changes_requested"
	ContractSigned                ContractStatus = "signed"
	ContractSentToSpecialist      ContractStatus = "sent_to_specialist"
	ContractSpecialistSendFailed  ContractStatus = "specialist_send_failed"
	ContractSent                  ContractStatus = "sent"
)

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractDraft:                 {ContractConfirmed, ContractSent},
	ContractConfirmed:             {ContractSentToParty, ContractSigned, ContractSent},
	ContractSentToParty:           {ContractPartyApproved, ContractPartyChangesRequested, ContractSent},
	ContractPartyChangesRequested: {ContractConfirmed, ContractSentToParty, ContractSent},
	ContractPartyApproved:         {ContractSigned, ContractSent},
	ContractSigned:                {ContractSentToSpecialist, ContractSent},
	ContractSentToSpecialist:      {ContractSpecialistSendFailed, ContractSent},
	ContractSpecialistSendFailed:  {ContractSentToSpecialist, ContractSent},
}

// IsValid checks if the status is one of the allowed values.
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractDraft, ContractConfirmed, ContractSentToParty, ContractPartyApproved,
		ContractPartyChangesRequested, ContractSigned, ContractSentToSpecialist,
		ContractSpecialistSendFailed, ContractSent:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the contract has been sent.
func (s ContractStatus) IsTerminal() bool {
	return s == ContractSent
}

// CanTransitionTo reports whether the contract may move from s to next.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	return slices.Contains(contractTransitions[s], next)
}

// Contract is a document prepared between a member and a counterparty.
type Contract struct {
	ID                    string
	WorkItemID            string
	Status                ContractStatus
	ContractType          string
	Title                 string
	OwnerUserID           string
	Counterparty          string
	RenderedText          string
	Language              string
	Specialist            SpecialistContact
	ResponsibleOperatorID *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
