// Package search merges text-search hits from the four entity collections
// into one normalized, recency-sorted result list.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// Scope selects which entity kinds a search considers.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeMemory   Scope = "memory"
	ScopeDocument Scope = "document"
	ScopeTask     Scope = "task"
	ScopeActivity Scope = "activity"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeMemory, ScopeDocument, ScopeTask, ScopeActivity:
		return true
	}
	return false
}

func (s Scope) includes(kind Scope) bool { return s == ScopeAll || s == kind }

const (
	// perKindLimit caps each kind's contribution.
	perKindLimit = 20
	// documentSubLimit caps each of the two document sub-searches (title and
	// content) before their union.
	documentSubLimit = 10

	memoryTitleMax   = 60
	activityTitleMax = 60
	documentDescMax  = 120
)

// Result is the normalized shape all hits are projected into.
type Result struct {
	Type        Scope             `json:"type"`
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Timestamp   time.Time         `json:"timestamp"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Counts holds per-kind result totals over the full in-scope set, so a
// filter UI can show counts without re-querying.
type Counts struct {
	All      int `json:"all"`
	Memory   int `json:"memory"`
	Document int `json:"document"`
	Task     int `json:"task"`
	Activity int `json:"activity"`
}

// Response is what the aggregator hands to its caller.
type Response struct {
	Results []Result `json:"results"`
	Counts  Counts   `json:"counts"`
}

// Aggregator fans a query out to the in-scope kinds and merges the hits.
// It performs no writes; a failed kind degrades to an empty contribution.
type Aggregator struct {
	store store.Store
	log   zerolog.Logger
}

func NewAggregator(s store.Store, log zerolog.Logger) *Aggregator {
	return &Aggregator{store: s, log: log}
}

// Search runs the aggregation. An empty or whitespace-only query returns an
// empty response without touching the store.
func (a *Aggregator) Search(ctx context.Context, query string, scope Scope) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return &Response{Results: []Result{}}, nil
	}

	var (
		memories   []*model.Memory
		documents  []*model.Document
		tasks      []*model.Task
		activities []*model.Activity
	)

	// The four lookups are independent and read-only, so they fan out
	// concurrently. Errors are logged and leave that kind's slice nil; the
	// group never returns a non-nil error.
	g, gctx := errgroup.WithContext(ctx)
	if scope.includes(ScopeMemory) {
		g.Go(func() error {
			res, err := a.store.Memories().Search(gctx, query, perKindLimit)
			if err != nil {
				a.log.Warn().Err(err).Str("kind", "memory").Msg("search lookup failed")
				return nil
			}
			memories = res
			return nil
		})
	}
	if scope.includes(ScopeDocument) {
		g.Go(func() error {
			res, err := a.searchDocuments(gctx, query)
			if err != nil {
				a.log.Warn().Err(err).Str("kind", "document").Msg("search lookup failed")
				return nil
			}
			documents = res
			return nil
		})
	}
	if scope.includes(ScopeTask) {
		g.Go(func() error {
			res, err := a.store.Tasks().Search(gctx, query, perKindLimit)
			if err != nil {
				a.log.Warn().Err(err).Str("kind", "task").Msg("search lookup failed")
				return nil
			}
			tasks = res
			return nil
		})
	}
	if scope.includes(ScopeActivity) {
		g.Go(func() error {
			res, err := a.store.Activities().Search(gctx, query, perKindLimit)
			if err != nil {
				a.log.Warn().Err(err).Str("kind", "activity").Msg("search lookup failed")
				return nil
			}
			activities = res
			return nil
		})
	}
	_ = g.Wait()

	results := make([]Result, 0, len(memories)+len(documents)+len(tasks)+len(activities))
	for _, m := range memories {
		results = append(results, normalizeMemory(m))
	}
	for _, d := range documents {
		results = append(results, normalizeDocument(d))
	}
	for _, t := range tasks {
		results = append(results, normalizeTask(t))
	}
	for _, act := range activities {
		results = append(results, normalizeActivity(act))
	}

	// Newest first; ties keep concatenation order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	counts := Counts{All: len(results)}
	for _, r := range results {
		switch r.Type {
		case ScopeMemory:
			counts.Memory++
		case ScopeDocument:
			counts.Document++
		case ScopeTask:
			counts.Task++
		case ScopeActivity:
			counts.Activity++
		}
	}

	return &Response{Results: results, Counts: counts}, nil
}

// searchDocuments unions the title and content sub-searches, dropping
// content-only duplicates so title matches keep precedence.
func (a *Aggregator) searchDocuments(ctx context.Context, query string) ([]*model.Document, error) {
	titleHits, err := a.store.Documents().SearchTitle(ctx, query, documentSubLimit)
	if err != nil {
		return nil, err
	}
	contentHits, err := a.store.Documents().SearchContent(ctx, query, documentSubLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(titleHits))
	for _, d := range titleHits {
		seen[d.ID] = struct{}{}
	}
	unique := titleHits
	for _, d := range contentHits {
		if _, dup := seen[d.ID]; dup {
			continue
		}
		unique = append(unique, d)
	}
	if len(unique) > perKindLimit {
		unique = unique[:perKindLimit]
	}
	return unique, nil
}

func normalizeMemory(m *model.Memory) Result {
	category := "general"
	if m.Category != nil && *m.Category != "" {
		category = *m.Category
	}
	return Result{
		Type:        ScopeMemory,
		ID:          m.ID,
		Title:       truncate(m.Content, memoryTitleMax),
		Description: m.Content,
		Timestamp:   m.CreatedAt,
		Meta: map[string]string{
			"category":   category,
			"importance": string(m.Importance),
		},
	}
}

func normalizeDocument(d *model.Document) Result {
	meta := map[string]string{"docType": d.Type}
	if len(d.Tags) > 0 {
		meta["tags"] = strings.Join(d.Tags, ", ")
	}
	return Result{
		Type:        ScopeDocument,
		ID:          d.ID,
		Title:       d.Title,
		Description: truncate(d.Content, documentDescMax),
		Timestamp:   d.CreatedAt,
		Meta:        meta,
	}
}

func normalizeTask(t *model.Task) Result {
	desc := "No description"
	if t.Description != nil && *t.Description != "" {
		desc = *t.Description
	}
	meta := map[string]string{
		"status":   string(t.Status),
		"priority": string(t.Priority),
	}
	if t.Category != nil && *t.Category != "" {
		meta["category"] = *t.Category
	}
	return Result{
		Type:        ScopeTask,
		ID:          t.ID,
		Title:       t.Title,
		Description: desc,
		Timestamp:   t.ScheduledAt,
		Meta:        meta,
	}
}

func normalizeActivity(a *model.Activity) Result {
	return Result{
		Type:        ScopeActivity,
		ID:          a.ID,
		Title:       truncate(a.Description, activityTitleMax),
		Description: a.Description,
		Timestamp:   a.Timestamp,
		Meta: map[string]string{
			"actionType": a.ActionType,
			"status":     string(a.Status),
		},
	}
}

// truncate cuts s to at most max characters, marking the cut with an
// ellipsis. Lengths are counted in runes so multibyte text is not split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
