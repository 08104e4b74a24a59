package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// POST /users/{userID}/interactions
//
// Fire-and-forget signal ingestion: a well-formed event is acknowledged with
// 202 even when the referenced content has vanished.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing user id")
		return
	}

	var req InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Malformed request body")
		return
	}
	if req.ContentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing content_id")
		return
	}

	err := h.service.RecordInteraction(r.Context(), domain.InteractionEvent{
		UserID:               userID,
		ContentID:            req.ContentID,
		Type:                 domain.InteractionType(req.Type),
		WatchDurationSeconds: req.WatchDurationSeconds,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInteractionType) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("interaction ingestion failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusAccepted, AckResponse{Status: "accepted"})
}
