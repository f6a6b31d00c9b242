package handler

import (
	"net/http"
	"strconv"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
	"github.com/mtlprog/workdesk/internal/service"
)

// handleListWorkItems lists work items the caller may view.
// @Summary List work items
// @Description Lists work items in the topics the caller may view, most recently updated first
// @Tags work-items
// @Produce json
// @Param topic query string false "Topic: dispute, contract, aid, admission, generic"
// @Param status query string false "Comma-separated statuses"
// @Param mine query bool false "Only items assigned to the caller"
// @Param unassigned query bool false "Only unclaimed items"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.WorkItemsListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items [get]
func (h *Handler) handleListWorkItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	var topic *domain.Topic
	if topicParam := query.Get("topic"); topicParam != "" {
		t := domain.Topic(topicParam)
		topic = &t
	}

	offset := 0
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			offset = n
		}
	}
	limit := parseLimit(r)

	var statuses []domain.WorkItemStatus
	for _, st := range parseStatuses(r) {
		statuses = append(statuses, domain.WorkItemStatus(st))
	}

	items, total, err := h.services.WorkItems.List(ctx, actor, service.ListFilters{
		Topic:      topic,
		Statuses:   statuses,
		Mine:       query.Get("mine") == "true",
		Unassigned: query.Get("unassigned") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.WorkItemsListResponse{
		WorkItems: make([]dto.WorkItemResponse, len(items)),
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}
	for i, item := range items {
		resp.WorkItems[i] = dto.ToWorkItemResponse(item)
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleGetWorkItem returns one work item.
// @Summary Get a work item
// @Tags work-items
// @Produce json
// @Param id path string true "Work item ID"
// @Success 200 {object} dto.WorkItemResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id} [get]
func (h *Handler) handleGetWorkItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	item, err := h.services.WorkItems.Get(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToWorkItemResponse(item))
}

// handleListEvents returns the event history of a work item.
// @Summary Get work item history
// @Description Events in the order they were appended
// @Tags work-items
// @Produce json
// @Param id path string true "Work item ID"
// @Success 200 {object} dto.EventsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id}/events [get]
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	events, err := h.services.WorkItems.Events(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventsResponse(events))
}

// handleClaim claims an unassigned work item for the caller.
// @Summary Claim a work item
// @Description Caller claims a new, unassigned work item. Exactly one of several concurrent claims wins.
// @Tags work-items
// @Produce json
// @Param id path string true "Work item ID"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id}/assign [post]
func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	event, err := h.services.Assignments.Claim(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// handleReassign hands a work item to another operator.
// @Summary Reassign a work item
// @Description Elevated operators only
// @Tags work-items
// @Accept json
// @Produce json
// @Param id path string true "Work item ID"
// @Param request body dto.ReassignRequest true "New assignee"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id}/reassign [post]
func (h *Handler) handleReassign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.ReassignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AssigneeID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignee_id is required")
		return
	}

	event, err := h.services.Assignments.Reassign(r.Context(), actor, id, req.AssigneeID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// handleSetStatus moves a work item along the status graph.
// @Summary Change work item status
// @Description Moves the item and, through its case family, the linked case
// @Tags work-items
// @Accept json
// @Produce json
// @Param id path string true "Work item ID"
// @Param request body dto.SetStatusRequest true "Target status"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id}/status [post]
func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status is required")
		return
	}

	event, err := h.services.WorkItems.SetStatus(r.Context(), actor, id, domain.WorkItemStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// handleComment appends an operator comment.
// @Summary Comment on a work item
// @Tags work-items
// @Accept json
// @Produce json
// @Param id path string true "Work item ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.EventResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id}/comment [post]
func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.services.WorkItems.AddComment(r.Context(), actor, id, req.Message)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToEventResponse(event))
}

// handleNotifyUser messages the member the work item is about.
// @Summary Notify the requester
// @Description Sends text to the work item's target user and records a notified event
// @Tags work-items
// @Accept json
// @Produce json
// @Param id path string true "Work item ID"
// @Param request body dto.NotifyUserRequest true "Message"
// @Success 200 {object} dto.EventResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-items/{id}/notify-user [post]
func (h *Handler) handleNotifyUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.NotifyUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.services.WorkItems.NotifyUser(r.Context(), actor, id, req.Text)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}
