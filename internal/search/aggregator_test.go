package search

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// fakeStore serves canned per-kind results and counts lookups.
type fakeStore struct {
	memories   []*model.Memory
	documents  []*model.Document // title hits
	contents   []*model.Document // content hits
	tasks      []*model.Task
	activities []*model.Activity

	memoryErr   error
	documentErr error
	taskErr     error
	activityErr error

	lookups atomic.Int32
}

func (f *fakeStore) Activities() store.Activities { return fakeActivities{f} }
func (f *fakeStore) Tasks() store.Tasks           { return fakeTasks{f} }
func (f *fakeStore) Documents() store.Documents   { return fakeDocuments{f} }
func (f *fakeStore) Memories() store.Memories     { return fakeMemories{f} }

type fakeActivities struct{ f *fakeStore }

func (s fakeActivities) Create(context.Context, *model.Activity) (*model.Activity, error) {
	return nil, errors.New("not implemented")
}
func (s fakeActivities) List(context.Context, model.ListActivitiesRequest) ([]*model.Activity, error) {
	return nil, errors.New("not implemented")
}
func (s fakeActivities) LatestByActionType(context.Context, string) (*model.Activity, error) {
	return nil, model.ErrNotFound
}
func (s fakeActivities) Delete(context.Context, string) error { return errors.New("not implemented") }
func (s fakeActivities) DeleteAll(context.Context) error      { return errors.New("not implemented") }
func (s fakeActivities) Search(context.Context, string, int) ([]*model.Activity, error) {
	s.f.lookups.Add(1)
	return s.f.activities, s.f.activityErr
}

type fakeTasks struct{ f *fakeStore }

func (s fakeTasks) Create(context.Context, *model.Task) (*model.Task, error) {
	return nil, errors.New("not implemented")
}
func (s fakeTasks) Get(context.Context, string) (*model.Task, error) { return nil, model.ErrNotFound }
func (s fakeTasks) List(context.Context, model.ListTasksRequest) ([]*model.Task, error) {
	return nil, errors.New("not implemented")
}
func (s fakeTasks) Update(context.Context, string, model.TaskPatch) (*model.Task, error) {
	return nil, model.ErrNotFound
}
func (s fakeTasks) Delete(context.Context, string) error { return errors.New("not implemented") }
func (s fakeTasks) Search(context.Context, string, int) ([]*model.Task, error) {
	s.f.lookups.Add(1)
	return s.f.tasks, s.f.taskErr
}

type fakeDocuments struct{ f *fakeStore }

func (s fakeDocuments) Create(context.Context, *model.Document) (*model.Document, error) {
	return nil, errors.New("not implemented")
}
func (s fakeDocuments) Get(context.Context, string) (*model.Document, error) {
	return nil, model.ErrNotFound
}
func (s fakeDocuments) List(context.Context, model.ListDocumentsRequest) ([]*model.Document, error) {
	return nil, errors.New("not implemented")
}
func (s fakeDocuments) Update(context.Context, string, model.DocumentPatch) (*model.Document, error) {
	return nil, model.ErrNotFound
}
func (s fakeDocuments) Delete(context.Context, string) error { return errors.New("not implemented") }
func (s fakeDocuments) SearchTitle(context.Context, string, int) ([]*model.Document, error) {
	s.f.lookups.Add(1)
	return s.f.documents, s.f.documentErr
}
func (s fakeDocuments) SearchContent(context.Context, string, int) ([]*model.Document, error) {
	s.f.lookups.Add(1)
	return s.f.contents, s.f.documentErr
}

type fakeMemories struct{ f *fakeStore }

func (s fakeMemories) Create(context.Context, *model.Memory) (*model.Memory, error) {
	return nil, errors.New("not implemented")
}
func (s fakeMemories) List(context.Context, model.ListMemoriesRequest) ([]*model.Memory, error) {
	return nil, errors.New("not implemented")
}
func (s fakeMemories) Delete(context.Context, string) error { return errors.New("not implemented") }
func (s fakeMemories) Search(context.Context, string, int) ([]*model.Memory, error) {
	s.f.lookups.Add(1)
	return s.f.memories, s.f.memoryErr
}

func newTestAggregator(f *fakeStore) *Aggregator {
	return NewAggregator(f, zerolog.Nop())
}

func ts(min int) time.Time {
	return time.Date(2026, 3, 1, 12, min, 0, 0, time.UTC)
}

func TestSearch_EmptyQuerySkipsStore(t *testing.T) {
	f := &fakeStore{}
	agg := newTestAggregator(f)

	for _, q := range []string{"", "   ", "\t\n"} {
		resp, err := agg.Search(context.Background(), q, ScopeAll)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(resp.Results) != 0 {
			t.Fatalf("Search(%q) returned %d results, want 0", q, len(resp.Results))
		}
	}
	if n := f.lookups.Load(); n != 0 {
		t.Fatalf("store was queried %d times for empty queries", n)
	}
}

func TestSearch_MergesAndSortsNewestFirst(t *testing.T) {
	f := &fakeStore{
		memories:   []*model.Memory{{ID: "m1", Content: "launch checklist note", CreatedAt: ts(10)}},
		documents:  []*model.Document{{ID: "d1", Title: "launch plan", CreatedAt: ts(30)}},
		tasks:      []*model.Task{{ID: "t1", Title: "launch rehearsal", ScheduledAt: ts(20)}},
		activities: []*model.Activity{{ID: "a1", Description: "launch deploy", Timestamp: ts(40)}},
	}
	agg := newTestAggregator(f)

	resp, err := agg.Search(context.Background(), "launch", ScopeAll)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(resp.Results))
	}
	wantOrder := []string{"a1", "d1", "t1", "m1"}
	for i, want := range wantOrder {
		if resp.Results[i].ID != want {
			t.Fatalf("result[%d] = %s, want %s", i, resp.Results[i].ID, want)
		}
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Timestamp.After(resp.Results[i-1].Timestamp) {
			t.Fatalf("results not sorted newest first at index %d", i)
		}
	}
}

func TestSearch_CountsCoverMergedSet(t *testing.T) {
	f := &fakeStore{
		memories: []*model.Memory{{ID: "m1", CreatedAt: ts(1)}, {ID: "m2", CreatedAt: ts(2)}},
		tasks:    []*model.Task{{ID: "t1", ScheduledAt: ts(3)}},
	}
	resp, err := newTestAggregator(f).Search(context.Background(), "x", ScopeAll)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := Counts{All: 3, Memory: 2, Task: 1}
	if resp.Counts != want {
		t.Fatalf("counts = %+v, want %+v", resp.Counts, want)
	}
	if resp.Counts.All != resp.Counts.Memory+resp.Counts.Document+resp.Counts.Task+resp.Counts.Activity {
		t.Fatalf("per-kind counts do not sum to All")
	}
}

func TestSearch_ScopeLimitsLookups(t *testing.T) {
	f := &fakeStore{
		memories: []*model.Memory{{ID: "m1", CreatedAt: ts(1)}},
		tasks:    []*model.Task{{ID: "t1", ScheduledAt: ts(2)}},
	}
	resp, err := newTestAggregator(f).Search(context.Background(), "x", ScopeTask)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "t1" {
		t.Fatalf("scoped search results = %+v", resp.Results)
	}
	// Only the task lookup should have run.
	if n := f.lookups.Load(); n != 1 {
		t.Fatalf("lookups = %d, want 1", n)
	}
}

func TestSearch_FailedKindDegradesToEmpty(t *testing.T) {
	f := &fakeStore{
		memories:  []*model.Memory{{ID: "m1", CreatedAt: ts(1)}},
		memoryErr: errors.New("db gone"),
		tasks:     []*model.Task{{ID: "t1", ScheduledAt: ts(2)}},
	}
	resp, err := newTestAggregator(f).Search(context.Background(), "x", ScopeAll)
	if err != nil {
		t.Fatalf("Search returned error despite per-kind degradation: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "t1" {
		t.Fatalf("results = %+v, want only the surviving task hit", resp.Results)
	}
}

func TestSearch_DocumentUnionDedupesTitleFirst(t *testing.T) {
	shared := &model.Document{ID: "d1", Title: "brand guide", Content: "logo usage", CreatedAt: ts(5)}
	f := &fakeStore{
		documents: []*model.Document{shared, {ID: "d2", Title: "guidelines", CreatedAt: ts(4)}},
		contents:  []*model.Document{shared, {ID: "d3", Title: "other", Content: "guide text", CreatedAt: ts(3)}},
	}
	resp, err := newTestAggregator(f).Search(context.Background(), "guide", ScopeDocument)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("got %d document results, want 3 (d1 deduplicated)", len(resp.Results))
	}
	seen := map[string]int{}
	for _, r := range resp.Results {
		seen[r.ID]++
	}
	if seen["d1"] != 1 {
		t.Fatalf("d1 appeared %d times", seen["d1"])
	}
}

func TestSearch_Idempotent(t *testing.T) {
	f := &fakeStore{
		memories: []*model.Memory{{ID: "m1", Content: "note", CreatedAt: ts(1)}},
		tasks:    []*model.Task{{ID: "t1", Title: "task", ScheduledAt: ts(1)}},
	}
	agg := newTestAggregator(f)

	first, err := agg.Search(context.Background(), "x", ScopeAll)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := agg.Search(context.Background(), "x", ScopeAll)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(first.Results) != len(second.Results) {
		t.Fatalf("repeated search changed result count: %d vs %d", len(first.Results), len(second.Results))
	}
	for i := range first.Results {
		if first.Results[i].ID != second.Results[i].ID {
			t.Fatalf("repeated search changed order at %d", i)
		}
	}
}

func TestSearch_EqualTimestampsKeepLookupOrder(t *testing.T) {
	// Two memories share a timestamp; the sort is stable, so they stay in
	// the order the store returned them.
	f := &fakeStore{
		memories: []*model.Memory{
			{ID: "m1", Content: "first note", CreatedAt: ts(5)},
			{ID: "m2", Content: "second note", CreatedAt: ts(5)},
		},
	}
	resp, err := newTestAggregator(f).Search(context.Background(), "note", ScopeMemory)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[0].ID != "m1" || resp.Results[1].ID != "m2" {
		t.Fatalf("tie order = [%s %s], want [m1 m2]", resp.Results[0].ID, resp.Results[1].ID)
	}
}

func TestNormalize_Memory(t *testing.T) {
	long := strings.Repeat("x", 80)
	r := normalizeMemory(&model.Memory{ID: "m", Content: long, Importance: model.LevelHigh, CreatedAt: ts(0)})
	if len([]rune(r.Title)) != memoryTitleMax+3 {
		t.Fatalf("title length = %d", len([]rune(r.Title)))
	}
	if !strings.HasSuffix(r.Title, "...") {
		t.Fatalf("truncated title missing ellipsis: %q", r.Title)
	}
	if r.Description != long {
		t.Fatalf("description should keep the full content")
	}
	if r.Meta["category"] != "general" {
		t.Fatalf("category = %q, want default general", r.Meta["category"])
	}
}

func TestNormalize_TaskDefaultDescription(t *testing.T) {
	r := normalizeTask(&model.Task{ID: "t", Title: "short task", ScheduledAt: ts(0), Status: model.TaskScheduled, Priority: model.LevelLow})
	if r.Description != "No description" {
		t.Fatalf("description = %q", r.Description)
	}
	if r.Title != "short task" {
		t.Fatalf("task titles must not be truncated; got %q", r.Title)
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	s := strings.Repeat("é", 70)
	out := truncate(s, 60)
	if !strings.HasSuffix(out, "...") {
		t.Fatalf("missing ellipsis")
	}
	if got := len([]rune(out)); got != 63 {
		t.Fatalf("rune length = %d, want 63", got)
	}
}
