package dto

import (
	"time"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// CaseLinkResponse points a work item at its case.
type CaseLinkResponse struct {
	Family string `json:"family"`
	CaseID string `json:"case_id"`
}

// WorkItemResponse represents a work item.
type WorkItemResponse struct {
	ID              string            `json:"id"`
	Topic           string            `json:"topic"`
	Kind            string            `json:"kind"`
	Status          string            `json:"status"`
	Priority        int               `json:"priority"`
	TargetUserID    *string           `json:"target_user_id"`
	AssigneeID      *string           `json:"assignee_id"`
	Case            *CaseLinkResponse `json:"case"`
	CreatedByUserID *string           `json:"created_by_user_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DoneAt          *time.Time        `json:"done_at"`
}

// WorkItemsListResponse represents the response for GET /work-items.
type WorkItemsListResponse struct {
	WorkItems []WorkItemResponse `json:"work_items"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// EventResponse represents a single work item event.
type EventResponse struct {
	ID         string    `json:"id"`
	WorkItemID string    `json:"work_item_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	ActorID    *string   `json:"actor_id"`
	OldStatus  *string   `json:"old_status"`
	NewStatus  *string   `json:"new_status"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventsResponse represents the response for GET /work-items/:id/events.
type EventsResponse struct {
	Events []EventResponse `json:"events"`
}

// SpecialistResponse holds the external specialist of a case.
type SpecialistResponse struct {
	Name    *string `json:"specialist_name"`
	Contact *string `json:"specialist_contact"`
	UserID  *string `json:"specialist_user_id"`
}

// DisputeResponse represents a dispute case.
type DisputeResponse struct {
	ID                    string                `json:"id"`
	WorkItemID            string                `json:"work_item_id"`
	CaseNumber            string                `json:"case_number"`
	Status                string                `json:"status"`
	RequesterUserID       string                `json:"requester_user_id"`
	Category              string                `json:"category"`
	Plaintiff             string                `json:"plaintiff"`
	Defendant             string                `json:"defendant"`
	Claim                 string                `json:"claim"`
	Amount                *int64                `json:"amount"`
	Evidence              []EvidenceFileRequest `json:"evidence"`
	ResponsibleOperatorID *string               `json:"responsible_operator_id"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	SpecialistResponse
}

// DisputesListResponse represents the response for GET /disputes.
type DisputesListResponse struct {
	Disputes []DisputeResponse `json:"disputes"`
}

// ContractResponse represents a contract.
type ContractResponse struct {
	ID                    string    `json:"id"`
	WorkItemID            string    `json:"work_item_id"`
	Status                string    `json:"status"`
	ContractType          string    `json:"contract_type"`
	Title                 string    `json:"title"`
	OwnerUserID           string    `json:"owner_user_id"`
	Counterparty          string    `json:"counterparty"`
	RenderedText          string    `json:"rendered_text"`
	Language              string    `json:"language"`
	ResponsibleOperatorID *string   `json:"responsible_operator_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	SpecialistResponse
}

// ContractsListResponse represents the response for GET /contracts.
type ContractsListResponse struct {
	Contracts []ContractResponse `json:"contracts"`
}

// AidRequestResponse represents an aid request.
type AidRequestResponse struct {
	ID                      string     `json:"id"`
	WorkItemID              string     `json:"work_item_id"`
	Status                  string     `json:"status"`
	RequesterUserID         string     `json:"requester_user_id"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	City                    string     `json:"city"`
	Country                 string     `json:"country"`
	Category                string     `json:"category"`
	HelpType                string     `json:"help_type"`
	Amount                  *int64     `json:"amount"`
	ClarificationText       *string    `json:"clarification_text"`
	ClarificationAttachment *string    `json:"clarification_attachment"`
	ReviewComment           *string    `json:"review_comment"`
	ReviewedBy              *string    `json:"reviewed_by"`
	ApprovedCategory        *string    `json:"approved_category"`
	ResponsibleOperatorID   *string    `json:"responsible_operator_id"`
	ApprovedAt              *time.Time `json:"approved_at"`
	CompletedAt             *time.Time `json:"completed_at"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	SpecialistResponse
}

// AidRequestsListResponse represents the response for GET /aid-requests.
type AidRequestsListResponse struct {
	AidRequests []AidRequestResponse `json:"aid_requests"`
}

// ConfirmationResponse represents an aid confirmation.
type ConfirmationResponse struct {
	ID              string     `json:"id"`
	AidRequestID    string     `json:"aid_request_id"`
	RequesterUserID string     `json:"requester_user_id"`
	Text            string     `json:"text"`
	Attachment      *string    `json:"attachment"`
	Status          string     `json:"status"`
	ReviewComment   *string    `json:"review_comment"`
	ReviewedBy      *string    `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ConfirmationsListResponse represents the response for GET /aid-requests/:id/confirmations.
type ConfirmationsListResponse struct {
	Confirmations []ConfirmationResponse `json:"confirmations"`
}

// NeedyResponse represents a needy-person registration.
type NeedyResponse struct {
	ID              string     `json:"id"`
	RequesterUserID string     `json:"requester_user_id"`
	PersonType      string     `json:"person_type"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	Reason          string     `json:"reason"`
	AllowZakat      bool       `json:"allow_zakat"`
	AllowFitr       bool       `json:"allow_fitr"`
	SadaqaOnly      bool       `json:"sadaqa_only"`
	Status          string     `json:"status"`
	ReviewComment   *string    `json:"review_comment"`
	ReviewedBy      *string    `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NeedyListResponse represents the response for GET /needy.
type NeedyListResponse struct {
	Needy []NeedyResponse `json:"needy"`
}

// AdmissionResponse represents a scholar admission application.
type AdmissionResponse struct {
	ID                    string     `json:"id"`
	WorkItemID            string     `json:"work_item_id"`
	Status                string     `json:"status"`
	ApplicantUserID       string     `json:"applicant_user_id"`
	FullName              string     `json:"full_name"`
	Country               string     `json:"country"`
	City                  string     `json:"city"`
	EducationPlace        string     `json:"education_place"`
	EducationCompleted    bool       `json:"education_completed"`
	EducationDetails      string     `json:"education_details"`
	KnowledgeAreas        []string   `json:"knowledge_areas"`
	Experience            string     `json:"experience"`
	MeetingType           *string    `json:"meeting_type"`
	MeetingLink           *string    `json:"meeting_link"`
	MeetingAt             *time.Time `json:"meeting_at"`
	DecisionComment       *string    `json:"decision_comment"`
	DecidedBy             *string    `json:"decided_by"`
	AssignedRoles         []string   `json:"assigned_roles"`
	ResponsibleOperatorID *string    `json:"responsible_operator_id"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// AdmissionsListResponse represents the response for GET /admissions.
type AdmissionsListResponse struct {
	Admissions []AdmissionResponse `json:"admissions"`
}

// StatsResponse represents queue statistics.
type StatsResponse struct {
	Period      string          `json:"period"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Queues      []QueueStats    `json:"queues"`
	Operators   []OperatorStats `json:"operators"`
}

// QueueStats is the number of work items of one topic in one status.
type QueueStats struct {
	Topic  string `json:"topic"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// OperatorStats represents statistics for a single operator.
type OperatorStats struct {
	OperatorID       string `json:"operator_id"`
	Username         string `json:"username"`
	Open             int    `json:"open"`
	Waiting          int    `json:"waiting"`
	DoneInPeriod     int    `json:"done_in_period"`
	CanceledInPeriod int    `json:"canceled_in_period"`
}

// ToWorkItemResponse converts domain.WorkItem to WorkItemResponse.
func ToWorkItemResponse(item *domain.WorkItem) WorkItemResponse {
	var link *CaseLinkResponse
	if !item.Payload.IsZero() {
		link = &CaseLinkResponse{Family: string(item.Payload.Family), CaseID: item.Payload.CaseID}
	}
	return WorkItemResponse{
		ID:              item.ID,
		Topic:           string(item.Topic),
		Kind:            string(item.Kind),
		Status:          string(item.Status),
		Priority:        item.Priority,
		TargetUserID:    item.TargetUserID,
		AssigneeID:      item.AssigneeID,
		Case:            link,
		CreatedByUserID: item.CreatedByUserID,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		DoneAt:          item.DoneAt,
	}
}

// ToEventResponse converts domain.Event to EventResponse.
func ToEventResponse(event *domain.Event) EventResponse {
	var oldStatus, newStatus *string
	if event.OldStatus != nil {
		s := string(*event.OldStatus)
		oldStatus = &s
	}
	if event.NewStatus != nil {
		s := string(*event.NewStatus)
		newStatus = &s
	}

	return EventResponse{
		ID:         event.ID,
		WorkItemID: event.WorkItemID,
		Type:       string(event.Type),
		Message:    event.Message,
		ActorID:    event.ActorID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		CreatedAt:  event.CreatedAt,
	}
}

// ToEventsResponse converts a history to EventsResponse.
func ToEventsResponse(events []*domain.Event) EventsResponse {
	out := make([]EventResponse, len(events))
	for i, e := range events {
		out[i] = ToEventResponse(e)
	}
	return EventsResponse{Events: out}
}

func toSpecialist(s domain.SpecialistContact) SpecialistResponse {
	return SpecialistResponse{Name: s.Name, Contact: s.Contact, UserID: s.UserID}
}

// ToDisputeResponse converts domain.DisputeCase to DisputeResponse.
func ToDisputeResponse(d *domain.DisputeCase) DisputeResponse {
	files := make([]EvidenceFileRequest, len(d.Evidence))
	for i, f := range d.Evidence {
		files[i] = EvidenceFileRequest(f)
	}
	return DisputeResponse{
		ID:                    d.ID,
		WorkItemID:            d.WorkItemID,
		CaseNumber:            d.CaseNumber,
		Status:                string(d.Status),
		RequesterUserID:       d.RequesterUserID,
		Category:              d.Category,
		Plaintiff:             d.Plaintiff,
		Defendant:             d.Defendant,
		Claim:                 d.Claim,
		Amount:                d.Amount,
		Evidence:              files,
		ResponsibleOperatorID: d.ResponsibleOperatorID,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
		SpecialistResponse:    toSpecialist(d.Specialist),
	}
}

// ToContractResponse converts domain.Contract to ContractResponse.
func ToContractResponse(c *domain.Contract) ContractResponse {
	return ContractResponse{
		ID:                    c.ID,
		WorkItemID:            c.WorkItemID,
		Status:                string(c.Status),
		ContractType:          c.ContractType,
		Title:                 c.Title,
		OwnerUserID:           c.OwnerUserID,
		Counterparty:          c.Counterparty,
		RenderedText:          c.RenderedText,
		Language:              c.Language,
		ResponsibleOperatorID: c.ResponsibleOperatorID,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
		SpecialistResponse:    toSpecialist(c.Specialist),
	}
}

// ToAidRequestResponse converts domain.AidRequest to AidRequestResponse.
func ToAidRequestResponse(a *domain.AidRequest) AidRequestResponse {
	var category *string
	if a.ApprovedCategory != nil {
		s := string(*a.ApprovedCategory)
		category = &s
	}
	return AidRequestResponse{
		ID:                      a.ID,
		WorkItemID:              a.WorkItemID,
		Status:                  string(a.Status),
		RequesterUserID:         a.RequesterUserID,
		Title:                   a.Title,
		Description:             a.Description,
		City:                    a.City,
		Country:                 a.Country,
		Category:                a.Category,
		HelpType:                a.HelpType,
		Amount:                  a.Amount,
		ClarificationText:       a.ClarificationText,
		ClarificationAttachment: a.ClarificationAttachment,
		ReviewComment:           a.ReviewComment,
		ReviewedBy:              a.ReviewedBy,
		ApprovedCategory:        category,
		ResponsibleOperatorID:   a.ResponsibleOperatorID,
		ApprovedAt:              a.ApprovedAt,
		CompletedAt:             a.CompletedAt,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
		SpecialistResponse:      toSpecialist(a.Specialist),
	}
}

// ToConfirmationResponse converts domain.Confirmation to ConfirmationResponse.
func ToConfirmationResponse(c *domain.Confirmation) ConfirmationResponse {
	return ConfirmationResponse{
		ID:              c.ID,
		AidRequestID:    c.AidRequestID,
		RequesterUserID: c.RequesterUserID,
		Text:            c.Text,
		Attachment:      c.Attachment,
		Status:          string(c.Status),
		ReviewComment:   c.ReviewComment,
		ReviewedBy:      c.ReviewedBy,
		ReviewedAt:      c.ReviewedAt,
		CreatedAt:       c.CreatedAt,
	}
}

// ToNeedyResponse converts domain.NeedyRequest to NeedyResponse.
func ToNeedyResponse(n *domain.NeedyRequest) NeedyResponse {
	return NeedyResponse{
		ID:              n.ID,
		RequesterUserID: n.RequesterUserID,
		PersonType:      string(n.PersonType),
		City:            n.City,
		Country:         n.Country,
		Reason:          n.Reason,
		AllowZakat:      n.AllowZakat,
		AllowFitr:       n.AllowFitr,
		SadaqaOnly:      n.SadaqaOnly,
		Status:          string(n.Status),
		ReviewComment:   n.ReviewComment,
		ReviewedBy:      n.ReviewedBy,
		ReviewedAt:      n.ReviewedAt,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
	}
}

// ToAdmissionResponse converts domain.AdmissionApplication to AdmissionResponse.
func ToAdmissionResponse(a *domain.AdmissionApplication) AdmissionResponse {
	var meetingType *string
	if a.MeetingType != nil {
		s := string(*a.MeetingType)
		meetingType = &s
	}
	roles := make([]string, len(a.AssignedRoles))
	for i, r := range a.AssignedRoles {
		roles[i] = string(r)
	}
	areas := a.KnowledgeAreas
	if areas == nil {
		areas = []string{}
	}
	return AdmissionResponse{
		ID:                    a.ID,
		WorkItemID:            a.WorkItemID,
		Status:                string(a.Status),
		ApplicantUserID:       a.ApplicantUserID,
		FullName:              a.FullName,
		Country:               a.Country,
		City:                  a.City,
		EducationPlace:        a.EducationPlace,
		EducationCompleted:    a.EducationCompleted,
		EducationDetails:      a.EducationDetails,
		KnowledgeAreas:        areas,
		Experience:            a.Experience,
		MeetingType:           meetingType,
		MeetingLink:           a.MeetingLink,
		MeetingAt:             a.MeetingAt,
		DecisionComment:       a.DecisionComment,
		DecidedBy:             a.DecidedBy,
		AssignedRoles:         roles,
		ResponsibleOperatorID: a.ResponsibleOperatorID,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

// ToQueueStats converts repository queue counts to QueueStats.
func ToQueueStats(counts []repository.QueueCount) []QueueStats {
	out := make([]QueueStats, len(counts))
	for i, c := range counts {
		out[i] = QueueStats{Topic: string(c.Topic), Status: string(c.Status), Count: c.Count}
	}
	return out
}

// ToOperatorStats converts repository workloads to OperatorStats.
func ToOperatorStats(workloads []repository.OperatorWorkload) []OperatorStats {
	out := make([]OperatorStats, len(workloads))
	for i, w := range workloads {
		out[i] = OperatorStats(w)
	}
	return out
}
