package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/hanzi-srs/internal/api/shared"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
)

// CardHandler handles card reads, reviews and postponements.
type CardHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(studyService study.Service, logger *slog.Logger) *CardHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "card_handler")),
	}
}

// GetCard handles GET /api/cards/{key}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	key, err := getPathKey(r)
	if err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	card, err := h.studyService.GetCard(r.Context(), key)
	if err != nil {
		handleServiceError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// Review handles POST /api/cards/{key}/review.
// The body carries either a rating (again, hard, good, easy) or a raw
// quality in [1,5]. An update that could not be stored is still returned,
// with status "unpersisted".
func (h *CardHandler) Review(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	key, err := getPathKey(r)
	if err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var result *study.ReviewResult
	if req.Quality != nil {
		result, err = h.studyService.Review(r.Context(), key, domain.Quality(*req.Quality))
	} else {
		result, err = h.studyService.ReviewRating(r.Context(), key, domain.Rating(req.Rating))
	}
	if err != nil {
		handleServiceError(w, r, err, "Failed to review card")
		return
	}

	log.Debug("card reviewed",
		slog.String("key", key),
		slog.String("status", string(result.Status)),
		slog.Int("interval", result.Card.Interval))

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		Status: string(result.Status),
		Card:   cardToResponse(result.Card),
	})
}

// Postpone handles POST /api/cards/{key}/postpone.
func (h *CardHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	key, err := getPathKey(r)
	if err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	var req PostponeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.studyService.Postpone(r.Context(), key, req.Days)
	if err != nil {
		handleServiceError(w, r, err, "Failed to postpone card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		Status: string(result.Status),
		Card:   cardToResponse(result.Card),
	})
}
