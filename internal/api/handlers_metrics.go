package api

import (
	"encoding/json"
	"net/http"

	"github.com/vibegen/mission-control/internal/api/respond"
	"github.com/vibegen/mission-control/internal/metrics"
	"github.com/vibegen/mission-control/internal/model"
)

// MetricsHandler provides HTTP transport for the Supabase sync and the
// operational activity loggers.
type MetricsHandler struct {
	svc *metrics.Service
}

func NewMetricsHandler(svc *metrics.Service) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

// SyncMetrics POST /api/metrics/sync
// A failed sync still answers 200 with a structured {error} body; the
// failure is recorded in the activity log, not surfaced as a transport
// error.
func (h *MetricsHandler) SyncMetrics(w http.ResponseWriter, r *http.Request) {
	result := h.svc.Sync(r.Context())
	respond.WriteJSON(w, http.StatusOK, result)
}

// GetSummary GET /api/metrics/summary
func (h *MetricsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetSummary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, summary)
}

// LogOutreach POST /api/ops/outreach
func (h *MetricsHandler) LogOutreach(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CreatorHandle string                 `json:"creatorHandle"`
		Platform      string                 `json:"platform"`
		Status        metrics.OutreachStatus `json:"status"`
		Notes         *string                `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	a, err := h.svc.LogOutreach(r.Context(), req.CreatorHandle, req.Platform, req.Status, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, a)
}

// LogSocialAction POST /api/ops/social
func (h *MetricsHandler) LogSocialAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action      string                 `json:"action"`
		Platform    string                 `json:"platform"`
		Description string                 `json:"description"`
		Metrics     *metrics.SocialMetrics `json:"metrics,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	a, err := h.svc.LogSocialAction(r.Context(), req.Action, req.Platform, req.Description, req.Metrics)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, a)
}

// LogDeployment POST /api/ops/deploy
func (h *MetricsHandler) LogDeployment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Service string               `json:"service"`
		Action  string               `json:"action"`
		Status  model.ActivityStatus `json:"status"`
		Details *string              `json:"details,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	a, err := h.svc.LogDeployment(r.Context(), req.Service, req.Action, req.Status, req.Details)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, a)
}
