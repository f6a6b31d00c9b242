package handler

import (
	"net/http"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
	"github.com/mtlprog/workdesk/internal/service"
)

// handleCreateContract stores a contract draft together with its work item.
// @Summary Create a contract
// @Tags contracts
// @Accept json
// @Produce json
// @Param request body dto.CreateContractRequest true "Contract"
// @Success 201 {object} dto.ContractResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contracts [post]
func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateContractRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.services.Contracts.Create(r.Context(), actor, service.CreateContractInput{
		OwnerUserID:  req.OwnerUserID,
		ContractType: req.ContractType,
		Title:        req.Title,
		Counterparty: req.Counterparty,
		RenderedText: req.RenderedText,
		Language:     req.Language,
		Priority:     req.Priority,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToContractResponse(c))
}

// handleListContracts lists contracts newest first.
// @Summary List contracts
// @Tags contracts
// @Produce json
// @Param status query string false "Comma-separated contract statuses"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ContractsListResponse
// @Security BearerAuth
// @Router /contracts [get]
func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	contracts, err := h.services.Contracts.List(r.Context(), actor, parseStatuses(r), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.ContractsListResponse{Contracts: make([]dto.ContractResponse, len(contracts))}
	for i, c := range contracts {
		resp.Contracts[i] = dto.ToContractResponse(c)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetContract returns one contract.
// @Summary Get a contract
// @Tags contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *Handler) handleGetContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	c, err := h.services.Contracts.Get(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToContractResponse(c))
}

// handlePatchContract edits a contract.
// @Summary Update a contract
// @Tags contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body dto.PatchContractRequest true "Changes"
// @Success 200 {object} dto.ContractResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [patch]
func (h *Handler) handlePatchContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.PatchContractRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var status *domain.ContractStatus
	if req.Status != nil {
		s := domain.ContractStatus(*req.Status)
		status = &s
	}

	c, err := h.services.Contracts.Patch(r.Context(), actor, id, service.ContractPatch{
		Status:       status,
		Title:        req.Title,
		Counterparty: req.Counterparty,
		RenderedText: req.RenderedText,
		Language:     req.Language,
		Specialist:   specialistPatch(req.SpecialistRequest),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToContractResponse(c))
}

// handleDeleteContract removes a contract and its work item.
// @Summary Delete a contract
// @Description Elevated operators only. The work item and its history go with it.
// @Tags contracts
// @Param id path string true "Contract ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *Handler) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.services.Contracts.Delete(r.Context(), actor, id); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAssignContract sets the responsible operator of a contract.
// @Summary Assign a contract
// @Tags contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body dto.AssignResponsibleRequest false "Responsible operator"
// @Success 200 {object} dto.ContractResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/assign [post]
func (h *Handler) handleAssignContract(w http.ResponseWriter, r *http.Request) {
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

	c, err := h.services.Contracts.AssignResponsible(r.Context(), actor, id, operatorID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToContractResponse(c))
}
