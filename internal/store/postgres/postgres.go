package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

//go:embed schema.sql
var ddl string

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

// EnsureSchema applies the embedded DDL. Statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Bootstrap verifies Postgres is reachable and the schema is present.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return EnsureSchema(ctx, db)
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) Activities() store.Activities { return &activities{db: s.db} }
func (s *pgStore) Tasks() store.Tasks           { return &tasks{db: s.db} }
func (s *pgStore) Documents() store.Documents   { return &documents{db: s.db} }
func (s *pgStore) Memories() store.Memories     { return &memories{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}

func marshalJSON(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

type rowScanner interface{ Scan(dest ...any) error }

// --- Activities ---

type activities struct{ db *sql.DB }

func (a *activities) Create(ctx context.Context, in *model.Activity) (*model.Activity, error) {
	out := *in
	out.ID = uuid.New().String()
	out.Timestamp = time.Now().UTC()

	var md *string
	if in.Metadata != nil {
		var err error
		if md, err = marshalJSON(in.Metadata); err != nil {
			return nil, err
		}
	}
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO activities (id, action_type, description, status, timestamp, metadata)
        VALUES ($1,$2,$3,$4,$5,$6)
    `, out.ID, out.ActionType, out.Description, string(out.Status), out.Timestamp, md)
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
	var rows *sql.Rows
	var err error
	if req.Status != nil {
		rows, err = a.db.QueryContext(ctx, `
            SELECT id, action_type, description, status, timestamp, metadata
            FROM activities WHERE status=$1 ORDER BY timestamp DESC LIMIT $2
        `, string(*req.Status), limit)
	} else {
		rows, err = a.db.QueryContext(ctx, `
            SELECT id, action_type, description, status, timestamp, metadata
            FROM activities ORDER BY timestamp DESC LIMIT $1
        `, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanActivities(rows)
}

func (a *activities) LatestByActionType(ctx context.Context, actionType string) (*model.Activity, error) {
	row := a.db.QueryRowContext(ctx, `
        SELECT id, action_type, description, status, timestamp, metadata
        FROM activities WHERE action_type=$1 ORDER BY timestamp DESC LIMIT 1
    `, actionType)
	return scanActivity(row)
}

func (a *activities) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM activities WHERE id=$1`, id)
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
	rows, err := a.db.QueryContext(ctx, `
        SELECT id, action_type, description, status, timestamp, metadata
        FROM activities WHERE description ILIKE $1 ORDER BY timestamp DESC LIMIT $2
    `, likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanActivities(rows)
}

func scanActivityInto(sc rowScanner) (*model.Activity, error) {
	var out model.Activity
	var status string
	var md *string
	if err := sc.Scan(&out.ID, &out.ActionType, &out.Description, &status, &out.Timestamp, &md); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.Status = model.ActivityStatus(status)
	out.Timestamp = out.Timestamp.UTC()
	if md != nil && *md != "" {
		if err := json.Unmarshal([]byte(*md), &out.Metadata); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func scanActivity(row *sql.Row) (*model.Activity, error) { return scanActivityInto(row) }

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

const taskColumns = `id, title, description, scheduled_at, duration, status, category, priority, color`

func (t *tasks) Create(ctx context.Context, in *model.Task) (*model.Task, error) {
	out := *in
	out.ID = uuid.New().String()
	_, err := t.db.ExecContext(ctx, `
        INSERT INTO tasks (`+taskColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, out.ID, out.Title, out.Description, out.ScheduledAt, out.Duration, string(out.Status), out.Category, string(out.Priority), out.Color)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *tasks) Get(ctx context.Context, id string) (*model.Task, error) {
	row := t.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id)
	return scanTaskInto(row)
}

func (t *tasks) List(ctx context.Context, req model.ListTasksRequest) ([]*model.Task, error) {
	if req.Start != nil && req.End != nil {
		rows, err := t.db.QueryContext(ctx, `
            SELECT `+taskColumns+` FROM tasks
            WHERE scheduled_at >= $1 AND scheduled_at <= $2 ORDER BY scheduled_at ASC
        `, *req.Start, *req.End)
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
	rows, err := t.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY scheduled_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

func (t *tasks) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ScheduledAt != nil {
		add("scheduled_at", *patch.ScheduledAt)
	}
	if patch.Duration != nil {
		add("duration", *patch.Duration)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if len(set) > 0 {
		args = append(args, id)
		q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))
		res, err := t.db.ExecContext(ctx, q, args...)
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
	res, err := t.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (t *tasks) Search(ctx context.Context, text string, limit int) ([]*model.Task, error) {
	rows, err := t.db.QueryContext(ctx, `
        SELECT `+taskColumns+` FROM tasks WHERE title ILIKE $1 ORDER BY scheduled_at DESC LIMIT $2
    `, likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

func scanTaskInto(sc rowScanner) (*model.Task, error) {
	var out model.Task
	var status, priority string
	if err := sc.Scan(&out.ID, &out.Title, &out.Description, &out.ScheduledAt, &out.Duration, &status, &out.Category, &priority, &out.Color); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.ScheduledAt = out.ScheduledAt.UTC()
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

const documentColumns = `id, title, content, doc_type, created_at, updated_at, tags`

func (d *documents) Create(ctx context.Context, in *model.Document) (*model.Document, error) {
	out := *in
	out.ID = uuid.New().String()
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	var tags *string
	if in.Tags != nil {
		var err error
		if tags, err = marshalJSON(in.Tags); err != nil {
			return nil, err
		}
	}
	_, err := d.db.ExecContext(ctx, `
        INSERT INTO documents (`+documentColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, out.ID, out.Title, out.Content, out.Type, out.CreatedAt, out.UpdatedAt, tags)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *documents) Get(ctx context.Context, id string) (*model.Document, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1`, id)
	return scanDocumentInto(row)
}

func (d *documents) List(ctx context.Context, req model.ListDocumentsRequest) ([]*model.Document, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	var rows *sql.Rows
	var err error
	if req.Type != nil {
		rows, err = d.db.QueryContext(ctx, `
            SELECT `+documentColumns+` FROM documents WHERE doc_type=$1 ORDER BY created_at DESC LIMIT $2
        `, *req.Type, limit)
	} else {
		rows, err = d.db.QueryContext(ctx, `
            SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC LIMIT $1
        `, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func (d *documents) Update(ctx context.Context, id string, patch model.DocumentPatch) (*model.Document, error) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Type != nil {
		add("doc_type", *patch.Type)
	}
	if patch.Tags != nil {
		tags, err := marshalJSON(*patch.Tags)
		if err != nil {
			return nil, err
		}
		add("tags", tags)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))
	res, err := d.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return d.Get(ctx, id)
}

func (d *documents) Delete(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM documents WHERE id=$1`, id)
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
	rows, err := d.db.QueryContext(ctx, `
        SELECT `+documentColumns+` FROM documents WHERE `+column+` ILIKE $1 ORDER BY created_at DESC LIMIT $2
    `, likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func scanDocumentInto(sc rowScanner) (*model.Document, error) {
	var out model.Document
	var tags *string
	if err := sc.Scan(&out.ID, &out.Title, &out.Content, &out.Type, &out.CreatedAt, &out.UpdatedAt, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()
	if tags != nil && *tags != "" {
		if err := json.Unmarshal([]byte(*tags), &out.Tags); err != nil {
			return nil, err
		}
	}
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

const memoryColumns = `id, content, category, importance, created_at, tags`

func (m *memories) Create(ctx context.Context, in *model.Memory) (*model.Memory, error) {
	out := *in
	out.ID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()

	var tags *string
	if in.Tags != nil {
		var err error
		if tags, err = marshalJSON(in.Tags); err != nil {
			return nil, err
		}
	}
	_, err := m.db.ExecContext(ctx, `
        INSERT INTO memories (`+memoryColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6)
    `, out.ID, out.Content, out.Category, string(out.Importance), out.CreatedAt, tags)
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
	var rows *sql.Rows
	var err error
	switch {
	case req.Category != nil:
		rows, err = m.db.QueryContext(ctx, `
            SELECT `+memoryColumns+` FROM memories WHERE category=$1 ORDER BY created_at DESC LIMIT $2
        `, *req.Category, limit)
	case req.Importance != nil:
		rows, err = m.db.QueryContext(ctx, `
            SELECT `+memoryColumns+` FROM memories WHERE importance=$1 ORDER BY created_at DESC LIMIT $2
        `, string(*req.Importance), limit)
	default:
		rows, err = m.db.QueryContext(ctx, `
            SELECT `+memoryColumns+` FROM memories ORDER BY created_at DESC LIMIT $1
        `, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func (m *memories) Delete(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (m *memories) Search(ctx context.Context, text string, limit int) ([]*model.Memory, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT `+memoryColumns+` FROM memories WHERE content ILIKE $1 ORDER BY created_at DESC LIMIT $2
    `, likePattern(text), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func scanMemoryInto(sc rowScanner) (*model.Memory, error) {
	var out model.Memory
	var importance string
	var tags *string
	if err := sc.Scan(&out.ID, &out.Content, &out.Category, &importance, &out.CreatedAt, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.Importance = model.Level(importance)
	out.CreatedAt = out.CreatedAt.UTC()
	if tags != nil && *tags != "" {
		if err := json.Unmarshal([]byte(*tags), &out.Tags); err != nil {
			return nil, err
		}
	}
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
