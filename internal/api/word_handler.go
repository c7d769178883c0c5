package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/hanzi-srs/internal/api/shared"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
)

// WordHandler handles saving words and recording lookups.
type WordHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(studyService study.Service, logger *slog.Logger) *WordHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for WordHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for WordHandler")
	}

	return &WordHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "word_handler")),
	}
}

// SaveWord handles POST /api/words.
// A new card answers 201, an existing key 200 and unavailable storage 503;
// all three carry a SaveWordResponse.
func (h *WordHandler) SaveWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SaveWordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.studyService.SaveWord(r.Context(), req.toWord())
	if err != nil {
		handleServiceError(w, r, err, "Failed to save word")
		return
	}

	status := http.StatusOK
	switch result.Status {
	case study.SaveStatusCreated:
		status = http.StatusCreated
	case study.SaveStatusUnavailable:
		status = http.StatusServiceUnavailable
	}

	log.Debug("word saved",
		slog.String("key", req.Key),
		slog.String("status", string(result.Status)),
		slog.String("level_status", result.LevelStatus.String()))

	shared.RespondWithJSON(w, r, status, SaveWordResponse{
		Status: string(result.Status),
		Card:   cardToResponse(result.Card),
	})
}

// RecordLookup handles POST /api/words/{key}/lookups.
func (h *WordHandler) RecordLookup(w http.ResponseWriter, r *http.Request) {
	key, err := getPathKey(r)
	if err != nil {
		handleServiceError(w, r, err, "")
		return
	}

	count, err := h.studyService.RecordLookup(r.Context(), key)
	if err != nil {
		handleServiceError(w, r, err, "Failed to record lookup")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LookupResponse{Key: key, Count: count})
}
