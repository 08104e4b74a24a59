package handler

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/staffstream/recommendation-service/internal/config"
	"github.com/staffstream/recommendation-service/internal/service"
)

// Pinger is anything the health endpoint can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service *service.Service
	cfg     config.RecommendConfig
	db      Pinger
	cache   Pinger
	log     zerolog.Logger
}

func NewHandler(svc *service.Service, cfg config.RecommendConfig, db, cache Pinger, log zerolog.Logger) *Handler {
	return &Handler{service: svc, cfg: cfg, db: db, cache: cache, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
