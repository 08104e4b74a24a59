package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/staffstream/recommendation-service/internal/handler"
	"github.com/staffstream/recommendation-service/internal/metrics"
)

func Setup(h *handler.Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/users/{userID}/recommendations", h.GetRecommendations)
	r.Post("/users/{userID}/interactions", h.RecordInteraction)
	r.Get("/recommendations/batch", h.GetBatchRecommendations)
	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	return r
}
