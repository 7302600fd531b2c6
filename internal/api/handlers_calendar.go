package api

import (
	"net/http"
	"time"

	"github.com/vibegen/mission-control/internal/api/respond"
	"github.com/vibegen/mission-control/internal/calendar"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/services"
)

// CalendarHandler serves the week-bucketed task layout.
type CalendarHandler struct {
	svc    *services.TaskService
	layout calendar.Layout
}

func NewCalendarHandler(svc *services.TaskService, layout calendar.Layout) *CalendarHandler {
	return &CalendarHandler{svc: svc, layout: layout}
}

// GetWeek GET /api/calendar/week?date=RFC3339
// date defaults to now; the response covers the Monday-start week containing
// it. Tasks are fetched once for the whole window, then bucketed per day.
func (h *CalendarHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ref := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse(time.RFC3339, d)
		if err != nil {
			respond.WriteBadRequest(w, "invalid date")
			return
		}
		ref = parsed
	}

	week := calendar.WeekOf(ref)
	tasks, err := h.svc.List(r.Context(), model.ListTasksRequest{Start: &week.Start, End: &week.End})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	buckets := calendar.BuildWeek(week, tasks, h.layout)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"weekStart": week.Start,
		"weekEnd":   week.End,
		"days":      buckets,
	})
}
