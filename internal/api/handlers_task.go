package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vibegen/mission-control/internal/api/respond"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/services"
)

// TaskHandler provides HTTP transport for scheduled tasks.
type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ListTasks GET /api/tasks?start=&end=
// start/end are RFC3339 instants bounding ScheduledAt inclusively.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	req := model.ListTasksRequest{}
	q := r.URL.Query()
	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			respond.WriteBadRequest(w, "invalid start")
			return
		}
		req.Start = &t
	}
	if e := q.Get("end"); e != "" {
		t, err := time.Parse(time.RFC3339, e)
		if err != nil {
			respond.WriteBadRequest(w, "invalid end")
			return
		}
		req.End = &t
	}
	tasks, err := h.svc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks, "count": len(tasks)})
}

// CreateTask POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string           `json:"title"`
		Description *string          `json:"description,omitempty"`
		ScheduledAt time.Time        `json:"scheduledAt"`
		Duration    *int             `json:"duration,omitempty"`
		Status      model.TaskStatus `json:"status"`
		Category    *string          `json:"category,omitempty"`
		Priority    model.Level      `json:"priority"`
		Color       *string          `json:"color,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Status == "" {
		req.Status = model.TaskScheduled
	}
	if req.Priority == "" {
		req.Priority = model.LevelMedium
	}
	t, err := h.svc.Create(r.Context(), &model.Task{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		Duration:    req.Duration,
		Status:      req.Status,
		Category:    req.Category,
		Priority:    req.Priority,
		Color:       req.Color,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, t)
}

// UpdateTask PATCH /api/tasks/{id}
// Only fields present in the body change; absent fields keep their stored
// values.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	t, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, t)
}

// CompleteTask POST /api/tasks/{id}/complete
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	t, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, t)
}

// DeleteTask DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
