package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
)

// RegisterRoutes mounts the /api routes served by the study service on r.
func RegisterRoutes(r chi.Router, studyService study.Service, logger *slog.Logger) {
	wordHandler := NewWordHandler(studyService, logger)
	cardHandler := NewCardHandler(studyService, logger)
	levelHandler := NewLevelHandler(studyService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/words", wordHandler.SaveWord)
		r.Post("/words/{key}/lookups", wordHandler.RecordLookup)

		r.Get("/cards/{key}", cardHandler.GetCard)
		r.Post("/cards/{key}/review", cardHandler.Review)
		r.Post("/cards/{key}/postpone", cardHandler.Postpone)

		r.Get("/levels/{level}/due", levelHandler.DueQueue)
		r.Get("/levels/{level}/analytics", levelHandler.Analytics)
		r.Get("/analytics", levelHandler.AllAnalytics)
	})
}
