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

// DocumentHandler provides HTTP transport for the document store.
type DocumentHandler struct {
	svc *services.DocumentService
}

func NewDocumentHandler(svc *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// ListDocuments GET /api/documents?type=&limit=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	req := model.ListDocumentsRequest{}
	if t := r.URL.Query().Get("type"); t != "" {
		req.Type = &t
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			respond.WriteBadRequest(w, "invalid limit")
			return
		}
		req.Limit = n
	}
	docs, err := h.svc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
}

// CreateDocument POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Type    string   `json:"type"`
		Tags    []string `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	d, err := h.svc.Create(r.Context(), &model.Document{
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
		Tags:    req.Tags,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, d)
}

// UpdateDocument PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch model.DocumentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	d, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, d)
}

// DeleteDocument DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
