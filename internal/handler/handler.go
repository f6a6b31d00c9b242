package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/workdesk/docs" // Import generated docs
	"github.com/mtlprog/workdesk/internal/authz"
	"github.com/mtlprog/workdesk/internal/config"
	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/evidence"
	"github.com/mtlprog/workdesk/internal/handler/dto"
	"github.com/mtlprog/workdesk/internal/middleware"
	"github.com/mtlprog/workdesk/internal/notify"
	"github.com/mtlprog/workdesk/internal/service"
	"github.com/mtlprog/workdesk/internal/static"
)

// Config holds the pluggable ports of the HTTP surface.
type Config struct {
	JWTSecret  string
	Authz      *authz.Table
	Dispatcher notify.Dispatcher
	Evidence   evidence.Store
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	services       *service.Services
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, cfg Config) *Handler {
	services := service.New(pool, service.Config{
		Authz:      cfg.Authz,
		Dispatcher: cfg.Dispatcher,
		Evidence:   cfg.Evidence,
	})

	return &Handler{
		pool:           pool,
		services:       services,
		authMiddleware: middleware.NewAuthMiddleware(cfg.JWTSecret),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Operator guide
	mux.HandleFunc("GET /operator.md", h.handleOperatorMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		// Work items
		{"GET /api/v1/work-items", h.handleListWorkItems},
		{"GET /api/v1/work-items/{id}", h.handleGetWorkItem},
		{"GET /api/v1/work-items/{id}/events", h.handleListEvents},
		{"POST /api/v1/work-items/{id}/assign", h.handleClaim},
		{"POST /api/v1/work-items/{id}/reassign", h.handleReassign},
		{"POST /api/v1/work-items/{id}/status", h.handleSetStatus},
		{"POST /api/v1/work-items/{id}/comment", h.handleComment},
		{"POST /api/v1/work-items/{id}/notify-user", h.handleNotifyUser},

		// Disputes
		{"GET /api/v1/disputes", h.handleListDisputes},
		{"POST /api/v1/disputes", h.handleCreateDispute},
		{"GET /api/v1/disputes/{id}", h.handleGetDispute},
		{"PATCH /api/v1/disputes/{id}", h.handlePatchDispute},
		{"POST /api/v1/disputes/{id}/assign", h.handleAssignDispute},
		{"GET /api/v1/disputes/{id}/evidence/{index}", h.handleDisputeEvidence},

		// Contracts
		{"GET /api/v1/contracts", h.handleListContracts},
		{"POST /api/v1/contracts", h.handleCreateContract},
		{"GET /api/v1/contracts/{id}", h.handleGetContract},
		{"PATCH /api/v1/contracts/{id}", h.handlePatchContract},
		{"DELETE /api/v1/contracts/{id}", h.handleDeleteContract},
		{"POST /api/v1/contracts/{id}/assign", h.handleAssignContract},

		// Aid
		{"GET /api/v1/aid-requests", h.handleListAidRequests},
		{"POST /api/v1/aid-requests", h.handleCreateAidRequest},
		{"GET /api/v1/aid-requests/{id}", h.handleGetAidRequest},
		{"PATCH /api/v1/aid-requests/{id}", h.handlePatchAidRequest},
		{"POST /api/v1/aid-requests/{id}/assign", h.handleAssignAidRequest},
		{"POST /api/v1/aid-requests/{id}/decision", h.handleDecideAidRequest},
		{"POST /api/v1/aid-requests/{id}/clarification", h.handleClarification},
		{"GET /api/v1/aid-requests/{id}/confirmations", h.handleListConfirmations},
		{"POST /api/v1/aid-requests/{id}/confirmations", h.handleCreateConfirmation},
		{"POST /api/v1/confirmations/{id}/decision", h.handleDecideConfirmation},
		{"GET /api/v1/needy", h.handleListNeedy},
		{"POST /api/v1/needy", h.handleCreateNeedy},
		{"GET /api/v1/needy/{id}", h.handleGetNeedy},
		{"POST /api/v1/needy/{id}/decision", h.handleDecideNeedy},

		// Admissions
		{"GET /api/v1/admissions", h.handleListAdmissions},
		{"POST /api/v1/admissions", h.handleCreateAdmission},
		{"GET /api/v1/admissions/{id}", h.handleGetAdmission},
		{"PATCH /api/v1/admissions/{id}", h.handlePatchAdmission},
		{"POST /api/v1/admissions/{id}/assign", h.handleAssignAdmission},
		{"POST /api/v1/admissions/{id}/schedule", h.handleScheduleMeeting},
		{"POST /api/v1/admissions/{id}/decision", h.handleDecideAdmission},

		// Stats
		{"GET /api/v1/stats", h.handleGetStats},
	}
	for _, route := range routes {
		mux.Handle(route.pattern, h.authMiddleware.Authenticate(route.handler))
	}
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleOperatorMd serves the embedded operator guide.
func (h *Handler) handleOperatorMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(static.OperatorMd)); err != nil {
		slog.Error("failed to write operator guide", "error", err)
	}
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a service error to its HTTP response.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// requireActor extracts the authenticated actor.
// Returns (actor, false) after writing 401 if there is none.
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, err := middleware.GetActorFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return domain.Actor{}, false
	}
	return actor, true
}

// extractID extracts and validates the {id} path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}

// decodeBody decodes the JSON request body into v.
// Returns false after writing 400 if the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

// parseLimit reads ?limit=, falling back to the default page size.
func parseLimit(r *http.Request) int {
	limit := config.DefaultListLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= config.MaxListLimit {
			limit = n
		}
	}
	return limit
}

// parseStatuses reads a comma-separated ?status= filter.
func parseStatuses(r *http.Request) []string {
	statusParam := r.URL.Query().Get("status")
	if statusParam == "" {
		return nil
	}
	return splitAndTrim(statusParam, ",")
}

// splitAndTrim splits a string by separator and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func specialistPatch(req dto.SpecialistRequest) service.SpecialistPatch {
	return service.SpecialistPatch{Name: req.Name, Contact: req.Contact, UserID: req.UserID}
}
