package dto

import "time"

// ReassignRequest represents the request body for POST /work-items/:id/reassign.
type ReassignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// SetStatusRequest represents the request body for POST /work-items/:id/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// CommentRequest represents the request body for POST /work-items/:id/comment.
type CommentRequest struct {
	Message string `json:"message"`
}

// NotifyUserRequest represents the request body for POST /work-items/:id/notify-user.
type NotifyUserRequest struct {
	Text string `json:"text"`
}

// AssignResponsibleRequest represents the request body for POST /<cases>/:id/assign.
// An empty assignee means the caller.
type AssignResponsibleRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// SpecialistRequest holds optional specialist contact changes.
type SpecialistRequest struct {
	Name    *string `json:"specialist_name,omitempty"`
	Contact *string `json:"specialist_contact,omitempty"`
	UserID  *string `json:"specialist_user_id,omitempty"`
}

// EvidenceFileRequest references an uploaded file.
type EvidenceFileRequest struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// CreateDisputeRequest represents the request body for POST /disputes.
type CreateDisputeRequest struct {
	RequesterUserID string                `json:"requester_user_id"`
	Category        string                `json:"category"`
	Plaintiff       string                `json:"plaintiff"`
	Defendant       string                `json:"defendant"`
	Claim           string                `json:"claim"`
	Amount          *int64                `json:"amount,omitempty"`
	Evidence        []EvidenceFileRequest `json:"evidence,omitempty"`
	Priority        *int                  `json:"priority,omitempty"`
}

// PatchDisputeRequest represents the request body for PATCH /disputes/:id.
type PatchDisputeRequest struct {
	Status    *string `json:"status,omitempty"`
	Category  *string `json:"category,omitempty"`
	Plaintiff *string `json:"plaintiff,omitempty"`
	Defendant *string `json:"defendant,omitempty"`
	Claim     *string `json:"claim,omitempty"`
	Amount    *int64  `json:"amount,omitempty"`
	SpecialistRequest
}

// CreateContractRequest represents the request body for POST /contracts.
type CreateContractRequest struct {
	OwnerUserID  string `json:"owner_user_id"`
	ContractType string `json:"contract_type"`
	Title        string `json:"title"`
	Counterparty string `json:"counterparty"`
	RenderedText string `json:"rendered_text"`
	Language     string `json:"language"`
	Priority     *int   `json:"priority,omitempty"`
}

// PatchContractRequest represents the request body for PATCH /contracts/:id.
type PatchContractRequest struct {
	Status       *string `json:"status,omitempty"`
	Title        *string `json:"title,omitempty"`
	Counterparty *string `json:"counterparty,omitempty"`
	RenderedText *string `json:"rendered_text,omitempty"`
	Language     *string `json:"language,omitempty"`
	SpecialistRequest
}

// CreateAidRequest represents the request body for POST /aid-requests.
type CreateAidRequest struct {
	RequesterUserID string `json:"requester_user_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	City            string `json:"city"`
	Country         string `json:"country"`
	Category        string `json:"category"`
	HelpType        string `json:"help_type"`
	Amount          *int64 `json:"amount,omitempty"`
	Priority        *int   `json:"priority,omitempty"`
}

// PatchAidRequest represents the request body for PATCH /aid-requests/:id.
type PatchAidRequest struct {
	Status      *string `json:"status,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
	Category    *string `json:"category,omitempty"`
	HelpType    *string `json:"help_type,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	SpecialistRequest
}

// AidDecisionRequest represents the request body for POST /aid-requests/:id/decision.
type AidDecisionRequest struct {
	Status           string  `json:"status"`
	Comment          string  `json:"comment"`
	ApprovedCategory *string `json:"approved_category,omitempty"`
}

// ClarificationRequest represents the request body for POST /aid-requests/:id/clarification.
type ClarificationRequest struct {
	UserID     string  `json:"user_id"`
	Text       string  `json:"text"`
	Attachment *string `json:"attachment,omitempty"`
}

// CreateConfirmationRequest represents the request body for POST /aid-requests/:id/confirmations.
type CreateConfirmationRequest struct {
	RequesterUserID string  `json:"requester_user_id"`
	Text            string  `json:"text"`
	Attachment      *string `json:"attachment,omitempty"`
}

// ReviewDecisionRequest is the body of confirmation and needy review decisions.
type ReviewDecisionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// CreateNeedyRequest represents the request body for POST /needy.
type CreateNeedyRequest struct {
	RequesterUserID string `json:"requester_user_id"`
	PersonType      string `json:"person_type"`
	City            string `json:"city"`
	Country         string `json:"country"`
	Reason          string `json:"reason"`
	AllowZakat      bool   `json:"allow_zakat"`
	AllowFitr       bool   `json:"allow_fitr"`
	SadaqaOnly      bool   `json:"sadaqa_only"`
}

// CreateAdmissionRequest represents the request body for POST /admissions.
type CreateAdmissionRequest struct {
	ApplicantUserID    string   `json:"applicant_user_id"`
	FullName           string   `json:"full_name"`
	Country            string   `json:"country"`
	City               string   `json:"city"`
	EducationPlace     string   `json:"education_place"`
	EducationCompleted bool     `json:"education_completed"`
	EducationDetails   string   `json:"education_details"`
	KnowledgeAreas     []string `json:"knowledge_areas"`
	Experience         string   `json:"experience"`
	Priority           *int     `json:"priority,omitempty"`
}

// PatchAdmissionRequest represents the request body for PATCH /admissions/:id.
type PatchAdmissionRequest struct {
	Status             *string  `json:"status,omitempty"`
	FullName           *string  `json:"full_name,omitempty"`
	Country            *string  `json:"country,omitempty"`
	City               *string  `json:"city,omitempty"`
	EducationPlace     *string  `json:"education_place,omitempty"`
	EducationCompleted *bool    `json:"education_completed,omitempty"`
	EducationDetails   *string  `json:"education_details,omitempty"`
	KnowledgeAreas     []string `json:"knowledge_areas,omitempty"`
	Experience         *string  `json:"experience,omitempty"`
}

// ScheduleMeetingRequest represents the request body for POST /admissions/:id/schedule.
type ScheduleMeetingRequest struct {
	Type string    `json:"type"`
	Link *string   `json:"link,omitempty"`
	At   time.Time `json:"at"`
}

// AdmissionDecisionRequest represents the request body for POST /admissions/:id/decision.
type AdmissionDecisionRequest struct {
	Status  string   `json:"status"`
	Comment string   `json:"comment"`
	Roles   []string `json:"roles,omitempty"`
}
