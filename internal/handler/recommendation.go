package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// GET /users/{userID}/recommendations?page=&page_size=
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing user id")
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
			return
		}
		page = parsed
	}

	// page_size above the configured maximum is clamped by the service, so
	// only non-positive or non-numeric values are rejected here.
	pageSize := h.cfg.DefaultPageSize
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page_size parameter")
			return
		}
		pageSize = parsed
	}

	result, err := h.service.GetRecommendations(r.Context(), userID, page, pageSize)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPage) || errors.Is(err, domain.ErrInvalidPageSize) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("recommendation request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	if pageSize > h.cfg.MaxPageSize {
		pageSize = h.cfg.MaxPageSize
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		UserID:   userID,
		Items:    result.Page.Items,
		Total:    result.Page.Total,
		Page:     page,
		PageSize: pageSize,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Page.Items),
		},
	})
}
