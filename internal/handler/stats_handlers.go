package handler

import (
	"net/http"

	"github.com/mtlprog/workdesk/internal/handler/dto"
)

// handleGetStats returns queue and operator statistics.
// @Summary Get statistics
// @Description Queue sizes per topic and status, plus operator workloads for a given period
// @Tags stats
// @Produce json
// @Param period query string false "Period: day, week (default), month, all"
// @Param operator_id query string false "Filter by operator ID"
// @Success 200 {object} dto.StatsResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	var operatorFilter *string
	if operatorID := query.Get("operator_id"); operatorID != "" {
		operatorFilter = &operatorID
	}

	stats, err := h.services.Stats.Get(r.Context(), actor, query.Get("period"), operatorFilter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		Period:      stats.Period,
		PeriodStart: stats.PeriodStart,
		PeriodEnd:   stats.PeriodEnd,
		Queues:      dto.ToQueueStats(stats.Queues),
		Operators:   dto.ToOperatorStats(stats.Operators),
	})
}
