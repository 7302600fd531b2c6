package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// New opens (or creates) a SQLite-backed store at the given path and applies
// the embedded schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB allows wiring with an existing connection (used by the factory
// and by tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Activities() store.Activities { return &activities{db: s.db} }
func (s *sqliteStore) Tasks() store.Tasks           { return &tasks{db: s.db} }
func (s *sqliteStore) Documents() store.Documents   { return &documents{db: s.db} }
func (s *sqliteStore) Memories() store.Memories     { return &memories{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// likePattern turns free text into a contains-match LIKE pattern with the
// metacharacters escaped. SQLite LIKE is already case-insensitive for ASCII.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}

func encodeTags(tags []string) (*string, error) {
	if tags == nil {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func encodeMetadata(md model.Metadata) (*string, error) {
	if md == nil {
		return nil, nil
	}
	b, err := json.Marshal(md)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func decodeTags(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(*raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func decodeMetadata(raw *string) (model.Metadata, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var md model.Metadata
	if err := json.Unmarshal([]byte(*raw), &md); err != nil {
		return nil, err
	}
	return md, nil
}

// --- Activities ---

type activities struct{ db *sql.DB }

func (a *activities) Create(ctx context.Context, in *model.Activity) (*model.Activity, error) {
	out := *in
	out.ID = uuid.New().String()
	out.Timestamp = time.Now().UTC()

	md, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}
	_, err = a.db.ExecContext(ctx, `INSERT INTO activities (id, action_type, description, status, timestamp, metadata) VALUES (?,?,?,?,?,?)`,
		out.ID, out.ActionType, out.Description, string(out.Status), out.Timestamp.UnixMilli(), md)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *activities) List(ctx context.Context, req model.ListActivitiesRequest) ([]*model.Activity, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, action_type, description, status, timestamp, metadata FROM activities`
	args := []any{}
	if req.Status != nil {
		q += ` WHERE status = ?`
		args = append(args, string(*req.Status))
	}
	q += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanActivities(rows)
}

func (a *activities) LatestByActionType(ctx context.Context, actionType string) (*model.Activity, error) {
	row := a.db.QueryRowContext(ctx, `SELECT id, action_type, description, status, timestamp, metadata FROM activities WHERE action_type = ? ORDER BY timestamp DESC LIMIT 1`, actionType)
	return scanActivity(row)
}

func (a *activities) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (a *activities) DeleteAll(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM activities`)
	return err
}

func (a *activities) Search(ctx context.Context, text string, limit int) ([]*model.Activity, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, action_type, description, status, timestamp, metadata FROM activities WHERE description LIKE ? ESCAPE '\' ORDER BY timestamp DESC LIMIT ?`,
		likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanActivities(rows)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanActivityInto(sc rowScanner) (*model.Activity, error) {
	var out model.Activity
	var status string
	var ts int64
	var md *string
	if err := sc.Scan(&out.ID, &out.ActionType, &out.Description, &status, &ts, &md); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.Status = model.ActivityStatus(status)
	out.Timestamp = time.UnixMilli(ts).UTC()
	meta, err := decodeMetadata(md)
	if err != nil {
		return nil, err
	}
	out.Metadata = meta
	return &out, nil
}

func scanActivity(row *sql.Row) (*model.Activity, error) {
	return scanActivityInto(row)
}

func scanActivities(rows *sql.Rows) ([]*model.Activity, error) {
	var out []*model.Activity
	for rows.Next() {
		a, err := scanActivityInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- Tasks ---

type tasks struct{ db *sql.DB }

func (t *tasks) Create(ctx context.Context, in *model.Task) (*model.Task, error) {
	out := *in
	out.ID = uuid.New().String()

	_, err := t.db.ExecContext(ctx, `INSERT INTO tasks (id, title, description, scheduled_at, duration, status, category, priority, color) VALUES (?,?,?,?,?,?,?,?,?)`,
		out.ID, out.Title, out.Description, out.ScheduledAt.UnixMilli(), out.Duration, string(out.Status), out.Category, string(out.Priority), out.Color)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *tasks) Get(ctx context.Context, id string) (*model.Task, error) {
	row := t.db.QueryRowContext(ctx, `SELECT id, title, description, scheduled_at, duration, status, category, priority, color FROM tasks WHERE id = ?`, id)
	return scanTaskInto(row)
}

func (t *tasks) List(ctx context.Context, req model.ListTasksRequest) ([]*model.Task, error) {
	if req.Start != nil && req.End != nil {
		rows, err := t.db.QueryContext(ctx, `SELECT id, title, description, scheduled_at, duration, status, category, priority, color FROM tasks WHERE scheduled_at >= ? AND scheduled_at <= ? ORDER BY scheduled_at ASC`,
			req.Start.UnixMilli(), req.End.UnixMilli())
		if err != nil {
			return nil, err
		}
		defer func() { _ = rows.Close() }()
		return scanTasks(rows)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := t.db.QueryContext(ctx, `SELECT id, title, description, scheduled_at, duration, status, category, priority, color FROM tasks ORDER BY scheduled_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

func (t *tasks) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	set := []string{}
	args := []any{}
	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.ScheduledAt != nil {
		set = append(set, "scheduled_at = ?")
		args = append(args, patch.ScheduledAt.UnixMilli())
	}
	if patch.Duration != nil {
		set = append(set, "duration = ?")
		args = append(args, *patch.Duration)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, string(*patch.Priority))
	}
	if patch.Color != nil {
		set = append(set, "color = ?")
		args = append(args, *patch.Color)
	}
	if len(set) > 0 {
		args = append(args, id)
		res, err := t.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return nil, err
		}
		if err := requireAffected(res); err != nil {
			return nil, err
		}
	}
	return t.Get(ctx, id)
}

func (t *tasks) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (t *tasks) Search(ctx context.Context, text string, limit int) ([]*model.Task, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT id, title, description, scheduled_at, duration, status, category, priority, color FROM tasks WHERE title LIKE ? ESCAPE '\' ORDER BY scheduled_at DESC LIMIT ?`,
		likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

func scanTaskInto(sc rowScanner) (*model.Task, error) {
	var out model.Task
	var scheduled int64
	var status, priority string
	if err := sc.Scan(&out.ID, &out.Title, &out.Description, &scheduled, &out.Duration, &status, &out.Category, &priority, &out.Color); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.ScheduledAt = time.UnixMilli(scheduled).UTC()
	out.Status = model.TaskStatus(status)
	out.Priority = model.Level(priority)
	return &out, nil
}

func scanTasks(rows *sql.Rows) ([]*model.Task, error) {
	var out []*model.Task
	for rows.Next() {
		tk, err := scanTaskInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tk)
	}
	return out, rows.Err()
}

// --- Documents ---

type documents struct{ db *sql.DB }

func (d *documents) Create(ctx context.Context, in *model.Document) (*model.Document, error) {
	out := *in
	out.ID = uuid.New().String()
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	_, err = d.db.ExecContext(ctx, `INSERT INTO documents (id, title, content, doc_type, created_at, updated_at, tags) VALUES (?,?,?,?,?,?,?)`,
		out.ID, out.Title, out.Content, out.Type, out.CreatedAt.UnixMilli(), out.UpdatedAt.UnixMilli(), tags)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *documents) Get(ctx context.Context, id string) (*model.Document, error) {
	row := d.db.QueryRowContext(ctx, `SELECT id, title, content, doc_type, created_at, updated_at, tags FROM documents WHERE id = ?`, id)
	return scanDocumentInto(row)
}

func (d *documents) List(ctx context.Context, req model.ListDocumentsRequest) ([]*model.Document, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, title, content, doc_type, created_at, updated_at, tags FROM documents`
	args := []any{}
	if req.Type != nil {
		q += ` WHERE doc_type = ?`
		args = append(args, *req.Type)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func (d *documents) Update(ctx context.Context, id string, patch model.DocumentPatch) (*model.Document, error) {
	set := []string{}
	args := []any{}
	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Type != nil {
		set = append(set, "doc_type = ?")
		args = append(args, *patch.Type)
	}
	if patch.Tags != nil {
		tags, err := encodeTags(*patch.Tags)
		if err != nil {
			return nil, err
		}
		set = append(set, "tags = ?")
		args = append(args, tags)
	}
	// updated_at is refreshed on every patch, even a field-free one
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC().UnixMilli())

	args = append(args, id)
	res, err := d.db.ExecContext(ctx, `UPDATE documents SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return d.Get(ctx, id)
}

func (d *documents) Delete(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (d *documents) SearchTitle(ctx context.Context, text string, limit int) ([]*model.Document, error) {
	return d.search(ctx, "title", text, limit)
}

func (d *documents) SearchContent(ctx context.Context, text string, limit int) ([]*model.Document, error) {
	return d.search(ctx, "content", text, limit)
}

func (d *documents) search(ctx context.Context, column, text string, limit int) ([]*model.Document, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, title, content, doc_type, created_at, updated_at, tags FROM documents WHERE `+column+` LIKE ? ESCAPE '\' ORDER BY created_at DESC LIMIT ?`,
		likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func scanDocumentInto(sc rowScanner) (*model.Document, error) {
	var out model.Document
	var created, updated int64
	var tags *string
	if err := sc.Scan(&out.ID, &out.Title, &out.Content, &out.Type, &created, &updated, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.CreatedAt = time.UnixMilli(created).UTC()
	out.UpdatedAt = time.UnixMilli(updated).UTC()
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, err
	}
	out.Tags = decoded
	return &out, nil
}

func scanDocuments(rows *sql.Rows) ([]*model.Document, error) {
	var out []*model.Document
	for rows.Next() {
		doc, err := scanDocumentInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, in *model.Memory) (*model.Memory, error) {
	out := *in
	out.ID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()

	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	_, err = m.db.ExecContext(ctx, `INSERT INTO memories (id, content, category, importance, created_at, tags) VALUES (?,?,?,?,?,?)`,
		out.ID, out.Content, out.Category, string(out.Importance), out.CreatedAt.UnixMilli(), tags)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, content, category, importance, created_at, tags FROM memories`
	args := []any{}
	switch {
	case req.Category != nil:
		q += ` WHERE category = ?`
		args = append(args, *req.Category)
	case req.Importance != nil:
		q += ` WHERE importance = ?`
		args = append(args, string(*req.Importance))
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func (m *memories) Delete(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (m *memories) Search(ctx context.Context, text string, limit int) ([]*model.Memory, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, content, category, importance, created_at, tags FROM memories WHERE content LIKE ? ESCAPE '\' ORDER BY created_at DESC LIMIT ?`,
		likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func scanMemoryInto(sc rowScanner) (*model.Memory, error) {
	var out model.Memory
	var created int64
	var importance string
	var tags *string
	if err := sc.Scan(&out.ID, &out.Content, &out.Category, &importance, &created, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.Importance = model.Level(importance)
	out.CreatedAt = time.UnixMilli(created).UTC()
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, err
	}
	out.Tags = decoded
	return &out, nil
}

func scanMemories(rows *sql.Rows) ([]*model.Memory, error) {
	var out []*model.Memory
	for rows.Next() {
		mem, err := scanMemoryInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mem)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
