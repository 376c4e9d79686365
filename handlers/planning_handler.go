package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/volley-planning/services"
	"github.com/go-chi/chi/v5"
)

type PlanningHandler struct {
	planningService *services.PlanningService
	logger          *slog.Logger
}

func NewPlanningHandler(planningService *services.PlanningService, logger *slog.Logger) *PlanningHandler {
	return &PlanningHandler{
		planningService: planningService,
		logger:          logger,
	}
}

type generatePlanningRequest struct {
	TournamentID string `json:"tournament_id"`
}

// Generate обрабатывает POST /api/planning/generate.
// Отвечает 201 с шапкой планирования; в фоновом режиме она приходит в
// статусе generating, а прогресс отслеживается через /status или websocket.
func (h *PlanningHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generatePlanningRequest
	if err := readJSON(w, r, &req); err != nil {
		errorResponse(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if req.TournamentID == "" {
		errorResponse(w, h.logger, http.StatusBadRequest, "tournament_id is required")
		return
	}

	planning, err := h.planningService.GeneratePlanning(r.Context(), req.TournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, h.logger, err)
		return
	}

	successResponse(w, h.logger, http.StatusCreated, "Planning généré avec succès", planning)
}

// GetStatus обрабатывает GET /api/planning/{planning_id}/status.
func (h *PlanningHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	planningID := chi.URLParam(r, "planning_id")

	status, err := h.planningService.GetStatus(r.Context(), planningID)
	if err != nil {
		mapServiceErrorToHTTP(w, h.logger, err)
		return
	}

	successResponse(w, h.logger, http.StatusOK, "Statut récupéré avec succès", map[string]string{
		"status":      string(status),
		"planning_id": planningID,
	})
}

// Regenerate обрабатывает POST /api/planning/{planning_id}/regenerate.
// Операция разрушающая: старое планирование удаляется до запуска новой
// генерации, и при её сбое турнир остаётся без планирования.
func (h *PlanningHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	planningID := chi.URLParam(r, "planning_id")

	planning, err := h.planningService.RegeneratePlanning(r.Context(), planningID)
	if err != nil {
		mapServiceErrorToHTTP(w, h.logger, err)
		return
	}

	successResponse(w, h.logger, http.StatusOK, "Planning régénéré avec succès", planning)
}

// GetByID обрабатывает GET /api/planning/{planning_id}.
func (h *PlanningHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	planningID := chi.URLParam(r, "planning_id")

	planning, err := h.planningService.GetByPlanningID(r.Context(), planningID)
	if err != nil {
		mapServiceErrorToHTTP(w, h.logger, err)
		return
	}

	successResponse(w, h.logger, http.StatusOK, "Planning récupéré avec succès", planning)
}

// GetByTournamentID обрабатывает GET /api/planning/tournament/{tournament_id}.
func (h *PlanningHandler) GetByTournamentID(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournament_id")

	planning, err := h.planningService.GetByTournamentID(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, h.logger, err)
		return
	}

	successResponse(w, h.logger, http.StatusOK, "Planning récupéré avec succès", planning)
}
