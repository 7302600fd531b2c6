package api

import (
	"github.com/gorilla/mux"

	"github.com/vibegen/mission-control/internal/api/recovery"
	"github.com/vibegen/mission-control/internal/calendar"
	"github.com/vibegen/mission-control/internal/metrics"
	"github.com/vibegen/mission-control/internal/search"
	"github.com/vibegen/mission-control/internal/services"
)

// Deps carries everything the router needs to wire handlers.
type Deps struct {
	Activities *services.ActivityService
	Tasks      *services.TaskService
	Documents  *services.DocumentService
	Memories   *services.MemoryService
	Search     *search.Aggregator
	Metrics    *metrics.Service
	Layout     calendar.Layout
}

// NewRouter wires HTTP routes to handlers.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Activity log
	activity := NewActivityHandler(d.Activities)
	root.HandleFunc("/api/activities", activity.ListActivities).Methods("GET")
	root.HandleFunc("/api/activities", activity.CreateActivity).Methods("POST")
	root.HandleFunc("/api/activities", activity.ClearActivities).Methods("DELETE")
	root.HandleFunc("/api/activities/{id}", activity.DeleteActivity).Methods("DELETE")

	// Tasks
	task := NewTaskHandler(d.Tasks)
	root.HandleFunc("/api/tasks", task.ListTasks).Methods("GET")
	root.HandleFunc("/api/tasks", task.CreateTask).Methods("POST")
	root.HandleFunc("/api/tasks/{id}", task.UpdateTask).Methods("PATCH")
	root.HandleFunc("/api/tasks/{id}", task.DeleteTask).Methods("DELETE")
	root.HandleFunc("/api/tasks/{id}/complete", task.CompleteTask).Methods("POST")

	// Documents
	document := NewDocumentHandler(d.Documents)
	root.HandleFunc("/api/documents", document.ListDocuments).Methods("GET")
	root.HandleFunc("/api/documents", document.CreateDocument).Methods("POST")
	root.HandleFunc("/api/documents/{id}", document.UpdateDocument).Methods("PATCH")
	root.HandleFunc("/api/documents/{id}", document.DeleteDocument).Methods("DELETE")

	// Memories
	memory := NewMemoryHandler(d.Memories)
	root.HandleFunc("/api/memories", memory.ListMemories).Methods("GET")
	root.HandleFunc("/api/memories", memory.CreateMemory).Methods("POST")
	root.HandleFunc("/api/memories/{id}", memory.DeleteMemory).Methods("DELETE")

	// Cross-entity search
	searchHandler := NewSearchHandler(d.Search)
	root.HandleFunc("/api/search", searchHandler.HandleSearch).Methods("POST")

	// Calendar
	cal := NewCalendarHandler(d.Tasks, d.Layout)
	root.HandleFunc("/api/calendar/week", cal.GetWeek).Methods("GET")

	// Metrics sync + operational loggers
	m := NewMetricsHandler(d.Metrics)
	root.HandleFunc("/api/metrics/sync", m.SyncMetrics).Methods("POST")
	root.HandleFunc("/api/metrics/summary", m.GetSummary).Methods("GET")
	root.HandleFunc("/api/ops/outreach", m.LogOutreach).Methods("POST")
	root.HandleFunc("/api/ops/social", m.LogSocialAction).Methods("POST")
	root.HandleFunc("/api/ops/deploy", m.LogDeployment).Methods("POST")

	// Health
	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	return root
}
