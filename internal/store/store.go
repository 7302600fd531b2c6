package store

import (
	"context"

	"github.com/vibegen/mission-control/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Activities() Activities
	Tasks() Tasks
	Documents() Documents
	Memories() Memories
}

// Activities is the append-mostly activity log. Search matches against the
// description field, engine-ranked, capped at limit.
type Activities interface {
	Create(ctx context.Context, a *model.Activity) (*model.Activity, error)
	List(ctx context.Context, req model.ListActivitiesRequest) ([]*model.Activity, error)
	// LatestByActionType returns the newest activity with the given action
	// type, or model.ErrNotFound when none exists.
	LatestByActionType(ctx context.Context, actionType string) (*model.Activity, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, text string, limit int) ([]*model.Activity, error)
}

type Tasks interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, req model.ListTasksRequest) ([]*model.Task, error)
	// Update applies the non-nil fields of patch. Absent fields keep their
	// stored values.
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text string, limit int) ([]*model.Task, error)
}

// Documents carries two independent sub-searches (title and content) so the
// aggregator can union them with title-match precedence.
type Documents interface {
	Create(ctx context.Context, d *model.Document) (*model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, req model.ListDocumentsRequest) ([]*model.Document, error)
	Update(ctx context.Context, id string, patch model.DocumentPatch) (*model.Document, error)
	Delete(ctx context.Context, id string) error
	SearchTitle(ctx context.Context, text string, limit int) ([]*model.Document, error)
	SearchContent(ctx context.Context, text string, limit int) ([]*model.Document, error)
}

type Memories interface {
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text string, limit int) ([]*model.Memory, error)
}
