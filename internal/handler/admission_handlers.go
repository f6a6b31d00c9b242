package handler

import (
	"net/http"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
	"github.com/mtlprog/workdesk/internal/service"
)

// handleCreateAdmission stores an application together with its work item.
// @Summary Create an admission application
// @Tags admissions
// @Accept json
// @Produce json
// @Param request body dto.CreateAdmissionRequest true "Application"
// @Success 201 {object} dto.AdmissionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admissions [post]
func (h *Handler) handleCreateAdmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateAdmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.services.Admissions.Create(r.Context(), actor, service.CreateAdmissionInput{
		ApplicantUserID:    req.ApplicantUserID,
		FullName:           req.FullName,
		Country:            req.Country,
		City:               req.City,
		EducationPlace:     req.EducationPlace,
		EducationCompleted: req.EducationCompleted,
		EducationDetails:   req.EducationDetails,
		KnowledgeAreas:     req.KnowledgeAreas,
		Experience:         req.Experience,
		Priority:           req.Priority,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAdmissionResponse(a))
}

// handleListAdmissions lists applications newest first.
// @Summary List admission applications
// @Tags admissions
// @Produce json
// @Param status query string false "Comma-separated admission statuses"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.AdmissionsListResponse
// @Security BearerAuth
// @Router /admissions [get]
func (h *Handler) handleListAdmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	applications, err := h.services.Admissions.List(r.Context(), actor, parseStatuses(r), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.AdmissionsListResponse{Admissions: make([]dto.AdmissionResponse, len(applications))}
	for i, a := range applications {
		resp.Admissions[i] = dto.ToAdmissionResponse(a)
	}
	respondJSON(w, http.StatusOK, resp)
}

// @Summary Get an admission application
// @Tags admissions
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} dto.AdmissionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admissions/{id} [get]
func (h *Handler) handleGetAdmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	a, err := h.services.Admissions.Get(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAdmissionResponse(a))
}

// handlePatchAdmission edits the applicant's details.
// @Summary Update an admission application
// @Description Meetings and decisions have their own endpoints
// @Tags admissions
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.PatchAdmissionRequest true "Changes"
// @Success 200 {object} dto.AdmissionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admissions/{id} [patch]
func (h *Handler) handlePatchAdmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.PatchAdmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var status *domain.AdmissionStatus
	if req.Status != nil {
		s := domain.AdmissionStatus(*req.Status)
		status = &s
	}

	a, err := h.services.Admissions.Patch(r.Context(), actor, id, service.AdmissionPatch{
		Status:             status,
		FullName:           req.FullName,
		Country:            req.Country,
		City:               req.City,
		EducationPlace:     req.EducationPlace,
		EducationCompleted: req.EducationCompleted,
		EducationDetails:   req.EducationDetails,
		KnowledgeAreas:     req.KnowledgeAreas,
		Experience:         req.Experience,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAdmissionResponse(a))
}

// @Summary Assign an admission application
// @Tags admissions
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.AssignResponsibleRequest false "Responsible operator"
// @Success 200 {object} dto.AdmissionResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admissions/{id}/assign [post]
func (h *Handler) handleAssignAdmission(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.services.Admissions.AssignResponsible(r.Context(), actor, id, operatorID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAdmissionResponse(a))
}

// handleScheduleMeeting books the introductory meeting and tells the applicant.
// @Summary Schedule an introductory meeting
// @Tags admissions
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.ScheduleMeetingRequest true "Meeting"
// @Success 200 {object} dto.AdmissionResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admissions/{id}/schedule [post]
func (h *Handler) handleScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.ScheduleMeetingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.services.Admissions.ScheduleMeeting(r.Context(), actor, id, service.MeetingInput{
		Type: domain.MeetingType(req.Type),
		Link: req.Link,
		At:   req.At,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAdmissionResponse(a))
}

// handleDecideAdmission accepts or rejects an application.
// @Summary Decide on an admission application
// @Description Accepting grants up to two roles to the applicant
// @Tags admissions
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.AdmissionDecisionRequest true "Decision"
// @Success 200 {object} dto.AdmissionResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admissions/{id}/decision [post]
func (h *Handler) handleDecideAdmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AdmissionDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	roles := make([]domain.Role, len(req.Roles))
	for i, role := range req.Roles {
		roles[i] = domain.Role(role)
	}

	a, err := h.services.Admissions.Decide(r.Context(), actor, id, service.AdmissionDecision{
		Status:  domain.AdmissionStatus(req.Status),
		Comment: req.Comment,
		Roles:   roles,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAdmissionResponse(a))
}
