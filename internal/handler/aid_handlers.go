package handler

import (
	"net/http"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
	"github.com/mtlprog/workdesk/internal/service"
)

// handleCreateAidRequest stores an aid request together with its work item.
// @Summary Create an aid request
// @Tags aid
// @Accept json
// @Produce json
// @Param request body dto.CreateAidRequest true "Aid request"
// @Success 201 {object} dto.AidRequestResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests [post]
func (h *Handler) handleCreateAidRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateAidRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.services.Aid.Create(r.Context(), actor, service.CreateAidInput{
		RequesterUserID: req.RequesterUserID,
		Title:           req.Title,
		Description:     req.Description,
		City:            req.City,
		Country:         req.Country,
		Category:        req.Category,
		HelpType:        req.HelpType,
		Amount:          req.Amount,
		Priority:        req.Priority,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAidRequestResponse(a))
}

// handleListAidRequests lists aid requests newest first.
// @Summary List aid requests
// @Tags aid
// @Produce json
// @Param status query string false "Comma-separated aid statuses"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.AidRequestsListResponse
// @Security BearerAuth
// @Router /aid-requests [get]
func (h *Handler) handleListAidRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	requests, err := h.services.Aid.List(r.Context(), actor, parseStatuses(r), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.AidRequestsListResponse{AidRequests: make([]dto.AidRequestResponse, len(requests))}
	for i, a := range requests {
		resp.AidRequests[i] = dto.ToAidRequestResponse(a)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetAidRequest returns one aid request.
// @Summary Get an aid request
// @Tags aid
// @Produce json
// @Param id path string true "Aid request ID"
// @Success 200 {object} dto.AidRequestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests/{id} [get]
func (h *Handler) handleGetAidRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	a, err := h.services.Aid.Get(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAidRequestResponse(a))
}

// handlePatchAidRequest edits an aid request.
// @Summary Update an aid request
// @Description Decisions are rejected here, use the decision endpoint
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Aid request ID"
// @Param request body dto.PatchAidRequest true "Changes"
// @Success 200 {object} dto.AidRequestResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests/{id} [patch]
func (h *Handler) handlePatchAidRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.PatchAidRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var status *domain.AidStatus
	if req.Status != nil {
		s := domain.AidStatus(*req.Status)
		status = &s
	}

	a, err := h.services.Aid.Patch(r.Context(), actor, id, service.AidPatch{
		Status:      status,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		Country:     req.Country,
		Category:    req.Category,
		HelpType:    req.HelpType,
		Amount:      req.Amount,
		Specialist:  specialistPatch(req.SpecialistRequest),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAidRequestResponse(a))
}

// handleAssignAidRequest sets the responsible operator of an aid request.
// @Summary Assign an aid request
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Aid request ID"
// @Param request body dto.AssignResponsibleRequest false "Responsible operator"
// @Success 200 {object} dto.AidRequestResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests/{id}/assign [post]
func (h *Handler) handleAssignAidRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}
	operatorID, ok := responsibleOperator(w, r, actor)
	if !ok {
		return
	}

	a, err := h.services.Aid.AssignResponsible(r.Context(), actor, id, operatorID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAidRequestResponse(a))
}

// handleDecideAidRequest approves, rejects or asks for clarification.
// @Summary Decide on an aid request
// @Description The requester is notified of the outcome
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Aid request ID"
// @Param request body dto.AidDecisionRequest true "Decision"
// @Success 200 {object} dto.AidRequestResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests/{id}/decision [post]
func (h *Handler) handleDecideAidRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AidDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var category *domain.AidCategory
	if req.ApprovedCategory != nil {
		c := domain.AidCategory(*req.ApprovedCategory)
		category = &c
	}

	a, err := h.services.Aid.Decide(r.Context(), actor, id, service.AidDecision{
		Status:           domain.AidStatus(req.Status),
		Comment:          req.Comment,
		ApprovedCategory: category,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAidRequestResponse(a))
}

// handleClarification records the requester's answer to a clarification request.
// @Summary Submit a clarification
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Aid request ID"
// @Param request body dto.ClarificationRequest true "Clarification"
// @Success 200 {object} dto.AidRequestResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests/{id}/clarification [post]
func (h *Handler) handleClarification(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.ClarificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.services.Aid.SubmitClarification(r.Context(), actor, id, req.UserID, req.Text, req.Attachment)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAidRequestResponse(a))
}

// handleListConfirmations lists the confirmations of an aid request.
// @Summary List confirmations
// @Tags aid
// @Produce json
// @Param id path string true "Aid request ID"
// @Success 200 {object} dto.ConfirmationsListResponse
// @Security BearerAuth
// @Router /aid-requests/{id}/confirmations [get]
func (h *Handler) handleListConfirmations(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	confirmations, err := h.services.Aid.ListConfirmations(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.ConfirmationsListResponse{Confirmations: make([]dto.ConfirmationResponse, len(confirmations))}
	for i, c := range confirmations {
		resp.Confirmations[i] = dto.ToConfirmationResponse(c)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleCreateConfirmation stores a receipt confirmation for an approved request.
// @Summary Create a confirmation
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Aid request ID"
// @Param request body dto.CreateConfirmationRequest true "Confirmation"
// @Success 201 {object} dto.ConfirmationResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /aid-requests/{id}/confirmations [post]
func (h *Handler) handleCreateConfirmation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.CreateConfirmationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.services.Aid.CreateConfirmation(r.Context(), actor, id, service.CreateConfirmationInput{
		RequesterUserID: req.RequesterUserID,
		Text:            req.Text,
		Attachment:      req.Attachment,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToConfirmationResponse(c))
}

// handleDecideConfirmation reviews a confirmation.
// @Summary Review a confirmation
// @Description Approval completes the aid request and its work item
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Confirmation ID"
// @Param request body dto.ReviewDecisionRequest true "Review"
// @Success 200 {object} dto.ConfirmationResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/decision [post]
func (h *Handler) handleDecideConfirmation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.ReviewDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.services.Aid.DecideConfirmation(r.Context(), actor, id, domain.ReviewStatus(req.Status), req.Comment)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToConfirmationResponse(c))
}

// handleCreateNeedy registers a person in need.
// @Summary Register a person in need
// @Tags aid
// @Accept json
// @Produce json
// @Param request body dto.CreateNeedyRequest true "Registration"
// @Success 201 {object} dto.NeedyResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /needy [post]
func (h *Handler) handleCreateNeedy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateNeedyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := h.services.Aid.CreateNeedy(r.Context(), actor, service.CreateNeedyInput{
		RequesterUserID: req.RequesterUserID,
		PersonType:      domain.NeedyPersonType(req.PersonType),
		City:            req.City,
		Country:         req.Country,
		Reason:          req.Reason,
		AllowZakat:      req.AllowZakat,
		AllowFitr:       req.AllowFitr,
		SadaqaOnly:      req.SadaqaOnly,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToNeedyResponse(n))
}

// handleListNeedy lists needy registrations.
// @Summary List needy registrations
// @Tags aid
// @Produce json
// @Param status query string false "Comma-separated review statuses"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.NeedyListResponse
// @Security BearerAuth
// @Router /needy [get]
func (h *Handler) handleListNeedy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	registrations, err := h.services.Aid.ListNeedy(r.Context(), actor, parseStatuses(r), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.NeedyListResponse{Needy: make([]dto.NeedyResponse, len(registrations))}
	for i, n := range registrations {
		resp.Needy[i] = dto.ToNeedyResponse(n)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetNeedy returns one needy registration.
// @Summary Get a needy registration
// @Tags aid
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} dto.NeedyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /needy/{id} [get]
func (h *Handler) handleGetNeedy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	n, err := h.services.Aid.GetNeedy(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToNeedyResponse(n))
}

// handleDecideNeedy reviews a needy registration.
// @Summary Review a needy registration
// @Tags aid
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param request body dto.ReviewDecisionRequest true "Review"
// @Success 200 {object} dto.NeedyResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /needy/{id}/decision [post]
func (h *Handler) handleDecideNeedy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.ReviewDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := h.services.Aid.DecideNeedy(r.Context(), actor, id, domain.ReviewStatus(req.Status), req.Comment)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToNeedyResponse(n))
}
