package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vibegen/mission-control/internal/api/respond"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/services"
)

// ActivityHandler provides HTTP transport for the activity log.
type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// ListActivities GET /api/activities?status=&limit=
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	req := model.ListActivitiesRequest{}
	if s := r.URL.Query().Get("status"); s != "" {
		st := model.ActivityStatus(s)
		req.Status = &st
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			respond.WriteBadRequest(w, "invalid limit")
			return
		}
		req.Limit = n
	}
	activities, err := h.svc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"activities": activities, "count": len(activities)})
}

// CreateActivity POST /api/activities
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActionType  string               `json:"actionType"`
		Description string               `json:"description"`
		Status      model.ActivityStatus `json:"status"`
		Metadata    model.Metadata       `json:"metadata,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	a, err := h.svc.Create(r.Context(), &model.Activity{
		ActionType:  req.ActionType,
		Description: req.Description,
		Status:      req.Status,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, a)
}

// DeleteActivity DELETE /api/activities/{id}
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearActivities DELETE /api/activities
func (h *ActivityHandler) ClearActivities(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAll(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
