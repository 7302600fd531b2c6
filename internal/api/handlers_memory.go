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

// MemoryHandler provides HTTP transport for memories (notes).
type MemoryHandler struct {
	svc *services.MemoryService
}

func NewMemoryHandler(svc *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

// ListMemories GET /api/memories?category=&importance=&limit=
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	req := model.ListMemoriesRequest{}
	q := r.URL.Query()
	if c := q.Get("category"); c != "" {
		req.Category = &c
	}
	if imp := q.Get("importance"); imp != "" {
		lv := model.Level(imp)
		req.Importance = &lv
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			respond.WriteBadRequest(w, "invalid limit")
			return
		}
		req.Limit = n
	}
	memories, err := h.svc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": memories, "count": len(memories)})
}

// CreateMemory POST /api/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string      `json:"content"`
		Category   *string     `json:"category,omitempty"`
		Importance model.Level `json:"importance"`
		Tags       []string    `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	m, err := h.svc.Create(r.Context(), &model.Memory{
		Content:    req.Content,
		Category:   req.Category,
		Importance: req.Importance,
		Tags:       req.Tags,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, m)
}

// DeleteMemory DELETE /api/memories/{id}
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
