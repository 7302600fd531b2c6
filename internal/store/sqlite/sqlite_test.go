package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func strp(s string) *string          { return &s }
func intp(i int) *int                { return &i }
func levelp(l model.Level) *model.Level { return &l }

func TestActivities_CreateAndList(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.Activities().Create(ctx, &model.Activity{
		ActionType:  "deploy",
		Description: "[api] restarted",
		Status:      model.ActivitySuccess,
		Metadata:    model.Metadata{"service": "api"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("create did not assign an ID")
	}
	if a.Timestamp.IsZero() {
		t.Fatalf("create did not assign a timestamp")
	}

	got, err := st.Activities().List(ctx, model.ListActivitiesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("list returned %d, want 1", len(got))
	}
	if got[0].Metadata["service"] != "api" {
		t.Fatalf("metadata lost on round trip: %+v", got[0].Metadata)
	}
}

func TestActivities_ListFiltersByStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, status := range []model.ActivityStatus{model.ActivitySuccess, model.ActivityError, model.ActivitySuccess} {
		if _, err := st.Activities().Create(ctx, &model.Activity{ActionType: "t", Description: "d", Status: status}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	failed := model.ActivityError
	got, err := st.Activities().List(ctx, model.ListActivitiesRequest{Status: &failed})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Status != model.ActivityError {
		t.Fatalf("status filter returned %d rows", len(got))
	}
}

func TestActivities_LatestByActionType(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Activities().Create(ctx, &model.Activity{ActionType: "analytics", Description: "first", Status: model.ActivitySuccess}); err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(5 * time.Millisecond) // timestamps are millisecond precision
	if _, err := st.Activities().Create(ctx, &model.Activity{ActionType: "analytics", Description: "second", Status: model.ActivitySuccess}); err != nil {
		t.Fatalf("create: %v", err)
	}

	latest, err := st.Activities().LatestByActionType(ctx, "analytics")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Description != "second" {
		t.Fatalf("latest = %q, want second", latest.Description)
	}

	if _, err := st.Activities().LatestByActionType(ctx, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("latest for unknown type: %v, want ErrNotFound", err)
	}
}

func TestActivities_DeleteAndClear(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.Activities().Create(ctx, &model.Activity{ActionType: "t", Description: "d", Status: model.ActivityInfo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Activities().Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Activities().Delete(ctx, a.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("deleting twice: %v, want ErrNotFound", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := st.Activities().Create(ctx, &model.Activity{ActionType: "t", Description: "d", Status: model.ActivityInfo}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := st.Activities().DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	got, err := st.Activities().List(ctx, model.ListActivitiesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("%d activities survived DeleteAll", len(got))
	}
}

func TestTasks_UpdatePatchesOnlySuppliedFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.Tasks().Create(ctx, &model.Task{
		Title:       "Post launch thread",
		Description: strp("twitter thread for launch"),
		ScheduledAt: time.Date(2026, 1, 7, 14, 30, 0, 0, time.UTC),
		Duration:    intp(45),
		Status:      model.TaskScheduled,
		Priority:    model.LevelHigh,
		Category:    strp("social"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := model.TaskCompleted
	updated, err := st.Tasks().Update(ctx, created.ID, model.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.TaskCompleted {
		t.Fatalf("status = %s", updated.Status)
	}
	// Everything not in the patch is untouched.
	if updated.Title != created.Title {
		t.Fatalf("title changed: %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "twitter thread for launch" {
		t.Fatalf("description changed: %v", updated.Description)
	}
	if updated.Duration == nil || *updated.Duration != 45 {
		t.Fatalf("duration changed: %v", updated.Duration)
	}
	if !updated.ScheduledAt.Equal(created.ScheduledAt) {
		t.Fatalf("scheduledAt changed: %v", updated.ScheduledAt)
	}
}

func TestTasks_UpdateUnknownID(t *testing.T) {
	st := newTestStore(t)
	status := model.TaskCompleted
	_, err := st.Tasks().Update(context.Background(), "nope", model.TaskPatch{Status: &status})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestTasks_ListByRange(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC),  // before the window
		time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),   // in
		time.Date(2026, 1, 11, 23, 0, 0, 0, time.UTC), // in
		time.Date(2026, 1, 12, 1, 0, 0, 0, time.UTC),  // after
	}
	for i, at := range times {
		if _, err := st.Tasks().Create(ctx, &model.Task{Title: "t", ScheduledAt: at, Status: model.TaskScheduled, Priority: model.LevelMedium}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC)
	got, err := st.Tasks().List(ctx, model.ListTasksRequest{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("range list returned %d, want 2", len(got))
	}
	if !got[0].ScheduledAt.Before(got[1].ScheduledAt) {
		t.Fatalf("range list not ascending")
	}
}

func TestDocuments_UpdateRefreshesUpdatedAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.Documents().Create(ctx, &model.Document{
		Title:   "Brand guide",
		Content: "logo usage rules",
		Type:    "guide",
		Tags:    []string{"brand", "design"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Fatalf("new document UpdatedAt != CreatedAt")
	}

	time.Sleep(5 * time.Millisecond)
	updated, err := st.Documents().Update(ctx, created.ID, model.DocumentPatch{Content: strp("logo and color rules")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("UpdatedAt not refreshed: %v vs %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if updated.Title != "Brand guide" {
		t.Fatalf("title changed: %q", updated.Title)
	}
	if len(updated.Tags) != 2 {
		t.Fatalf("tags changed: %v", updated.Tags)
	}

	// A field-free patch still touches UpdatedAt.
	time.Sleep(5 * time.Millisecond)
	touched, err := st.Documents().Update(ctx, created.ID, model.DocumentPatch{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !touched.UpdatedAt.After(updated.UpdatedAt) {
		t.Fatalf("empty patch did not refresh UpdatedAt")
	}
}

func TestDocuments_TitleAndContentSearchAreIndependent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Documents().Create(ctx, &model.Document{Title: "Launch plan", Content: "steps", Type: "plan"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.Documents().Create(ctx, &model.Document{Title: "Notes", Content: "launch retro", Type: "note"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	byTitle, err := st.Documents().SearchTitle(ctx, "launch", 10)
	if err != nil {
		t.Fatalf("search title: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].Title != "Launch plan" {
		t.Fatalf("title search hit %d rows", len(byTitle))
	}

	byContent, err := st.Documents().SearchContent(ctx, "launch", 10)
	if err != nil {
		t.Fatalf("search content: %v", err)
	}
	if len(byContent) != 1 || byContent[0].Title != "Notes" {
		t.Fatalf("content search hit %d rows", len(byContent))
	}
}

func TestSearch_RespectsLimitAndEscapesWildcards(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := st.Memories().Create(ctx, &model.Memory{Content: "repeated note", Importance: model.LevelLow}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := st.Memories().Create(ctx, &model.Memory{Content: "discount is 100% off", Importance: model.LevelLow}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.Memories().Search(ctx, "repeated", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("search returned %d, want the 20 cap", len(got))
	}

	// "%" must match literally, not as a wildcard.
	got, err = st.Memories().Search(ctx, "100% off", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("literal %% search returned %d, want 1", len(got))
	}
}

func TestMemories_ListFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Memories().Create(ctx, &model.Memory{Content: "a", Category: strp("client"), Importance: model.LevelHigh}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.Memories().Create(ctx, &model.Memory{Content: "b", Category: strp("general"), Importance: model.LevelLow}); err != nil {
		t.Fatalf("create: %v", err)
	}

	byCat, err := st.Memories().List(ctx, model.ListMemoriesRequest{Category: strp("client")})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byCat) != 1 || byCat[0].Content != "a" {
		t.Fatalf("category filter returned %d rows", len(byCat))
	}

	byImp, err := st.Memories().List(ctx, model.ListMemoriesRequest{Importance: levelp(model.LevelLow)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byImp) != 1 || byImp[0].Content != "b" {
		t.Fatalf("importance filter returned %d rows", len(byImp))
	}
}

func TestMemories_DeleteUnknownID(t *testing.T) {
	st := newTestStore(t)
	if err := st.Memories().Delete(context.Background(), "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
