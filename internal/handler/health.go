package handler

import "net/http"

// GET /health
//
// Degraded cache still reports 200: caching is an optimization, not a
// correctness dependency.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", DB: "ok", Cache: "ok"}
	status := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.DB = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Cache = err.Error()
	}

	writeJSON(w, status, resp)
}
