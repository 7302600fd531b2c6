package api

import (
	"encoding/json"
	"net/http"

	"github.com/vibegen/mission-control/internal/api/respond"
	"github.com/vibegen/mission-control/internal/search"
)

// SearchHandler handles POST /api/search
type SearchHandler struct {
	agg *search.Aggregator
}

func NewSearchHandler(agg *search.Aggregator) *SearchHandler {
	return &SearchHandler{agg: agg}
}

// HandleSearch processes incoming cross-entity search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query  string       `json:"query"`
		Filter search.Scope `json:"filter,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Filter == "" {
		req.Filter = search.ScopeAll
	}
	if !req.Filter.Valid() {
		respond.WriteBadRequest(w, "invalid filter")
		return
	}

	resp, err := h.agg.Search(r.Context(), req.Query, req.Filter)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}
