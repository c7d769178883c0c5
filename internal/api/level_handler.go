package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hanzi-srs/internal/api/shared"
	"github.com/phrazzld/hanzi-srs/internal/domain/level"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
)

// LevelHandler serves per-level due queues and progress analytics.
type LevelHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewLevelHandler creates a new LevelHandler.
func NewLevelHandler(studyService study.Service, logger *slog.Logger) *LevelHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for LevelHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LevelHandler")
	}

	return &LevelHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "level_handler")),
	}
}

// DueQueue handles GET /api/levels/{level}/due.
func (h *LevelHandler) DueQueue(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "level")

	cards, err := h.studyService.DueQueue(r.Context(), raw)
	if err != nil {
		handleServiceError(w, r, err, "Failed to build due queue")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueQueueResponse{
		Level: level.Canonical(raw),
		Count: len(cards),
		Cards: cardsToResponse(cards),
	})
}

// Analytics handles GET /api/levels/{level}/analytics.
func (h *LevelHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.studyService.Analytics(r.Context(), chi.URLParam(r, "level"))
	if err != nil {
		handleServiceError(w, r, err, "Failed to compute analytics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, analyticsToResponse(a))
}

// AllAnalytics handles GET /api/analytics.
func (h *LevelHandler) AllAnalytics(w http.ResponseWriter, r *http.Request) {
	all, err := h.studyService.AllAnalytics(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to compute analytics")
		return
	}

	out := make([]AnalyticsResponse, 0, len(all))
	for _, a := range all {
		out = append(out, analyticsToResponse(a))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
