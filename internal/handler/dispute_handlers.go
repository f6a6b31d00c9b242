package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
	"github.com/mtlprog/workdesk/internal/service"
)

// handleCreateDispute opens a dispute together with its work item.
// @Summary Open a dispute
// @Tags disputes
// @Accept json
// @Produce json
// @Param request body dto.CreateDisputeRequest true "Dispute"
// @Success 201 {object} dto.DisputeResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disputes [post]
func (h *Handler) handleCreateDispute(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	files := make([]domain.EvidenceFile, len(req.Evidence))
	for i, f := range req.Evidence {
		files[i] = domain.EvidenceFile(f)
	}

	d, err := h.services.Disputes.Create(r.Context(), actor, service.CreateDisputeInput{
		RequesterUserID: req.RequesterUserID,
		Category:        req.Category,
		Plaintiff:       req.Plaintiff,
		Defendant:       req.Defendant,
		Claim:           req.Claim,
		Amount:          req.Amount,
		Evidence:        files,
		Priority:        req.Priority,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToDisputeResponse(d))
}

// handleListDisputes lists disputes newest first.
// @Summary List disputes
// @Tags disputes
// @Produce json
// @Param status query string false "Comma-separated dispute statuses"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.DisputesListResponse
// @Security BearerAuth
// @Router /disputes [get]
func (h *Handler) handleListDisputes(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	disputes, err := h.services.Disputes.List(r.Context(), actor, parseStatuses(r), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.DisputesListResponse{Disputes: make([]dto.DisputeResponse, len(disputes))}
	for i, d := range disputes {
		resp.Disputes[i] = dto.ToDisputeResponse(d)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetDispute returns one dispute.
// @Summary Get a dispute
// @Tags disputes
// @Produce json
// @Param id path string true "Dispute ID"
// @Success 200 {object} dto.DisputeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disputes/{id} [get]
func (h *Handler) handleGetDispute(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	d, err := h.services.Disputes.Get(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToDisputeResponse(d))
}

// handlePatchDispute edits a dispute.
// @Summary Update a dispute
// @Description A status change moves the linked work item in the same transaction
// @Tags disputes
// @Accept json
// @Produce json
// @Param id path string true "Dispute ID"
// @Param request body dto.PatchDisputeRequest true "Changes"
// @Success 200 {object} dto.DisputeResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disputes/{id} [patch]
func (h *Handler) handlePatchDispute(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.PatchDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var status *domain.DisputeStatus
	if req.Status != nil {
		s := domain.DisputeStatus(*req.Status)
		status = &s
	}

	d, err := h.services.Disputes.Patch(r.Context(), actor, id, service.DisputePatch{
		Status:     status,
		Category:   req.Category,
		Plaintiff:  req.Plaintiff,
		Defendant:  req.Defendant,
		Claim:      req.Claim,
		Amount:     req.Amount,
		Specialist: specialistPatch(req.SpecialistRequest),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToDisputeResponse(d))
}

// handleAssignDispute sets the responsible operator of a dispute.
// @Summary Assign a dispute
// @Description Empty assignee_id means the caller. Only elevated operators may assign others.
// @Tags disputes
// @Accept json
// @Produce json
// @Param id path string true "Dispute ID"
// @Param request body dto.AssignResponsibleRequest false "Responsible operator"
// @Success 200 {object} dto.DisputeResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disputes/{id}/assign [post]
func (h *Handler) handleAssignDispute(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.services.Disputes.AssignResponsible(r.Context(), actor, id, operatorID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToDisputeResponse(d))
}

// handleDisputeEvidence streams one evidence file of a dispute.
// @Summary Download dispute evidence
// @Tags disputes
// @Produce octet-stream
// @Param id path string true "Dispute ID"
// @Param index path int true "Evidence index"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disputes/{id}/evidence/{index} [get]
func (h *Handler) handleDisputeEvidence(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "index must be an integer")
		return
	}

	obj, file, err := h.services.Disputes.OpenEvidence(r.Context(), actor, id, index)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if file.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Error("failed to stream evidence", "dispute_id", id, "file_id", file.FileID, "error", err)
	}
}

// responsibleOperator reads the optional assign body, defaulting to the caller.
func responsibleOperator(w http.ResponseWriter, r *http.Request, actor domain.Actor) (string, bool) {
	var req dto.AssignResponsibleRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return "", false
		}
	}
	if req.AssigneeID == "" {
		return actor.ID, true
	}
	return req.AssigneeID, true
}
