package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
)

const serviceVersion = "1.0.0"

type HealthHandler struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewHealthHandler(db *sql.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Root обрабатывает GET / — статичная информация о сервисе.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	successResponse(w, h.logger, http.StatusOK, "AI Planning Service API", map[string]string{
		"version": serviceVersion,
	})
}

// Healthz обрабатывает GET /healthz — живость сервиса вместе с БД.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("health check: database ping failed", slog.Any("error", err))
		errorResponse(w, h.logger, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	successResponse(w, h.logger, http.StatusOK, "ok", nil)
}
