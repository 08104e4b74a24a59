package handler

import "github.com/staffstream/recommendation-service/internal/domain"

type RecommendationResponse struct {
	UserID   string                    `json:"user_id"`
	Items    []string                  `json:"items"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Metadata domain.RecommendationMeta `json:"metadata"`
}

type InteractionRequest struct {
	ContentID            string  `json:"content_id"`
	Type                 string  `json:"type"`
	WatchDurationSeconds float64 `json:"watch_duration_seconds,omitempty"`
}

type AckResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Cache  string `json:"cache"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
