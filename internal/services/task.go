package services

import (
	"context"
	"fmt"

	"github.com/vibegen/mission-control/internal/api/validate"
	"github.com/vibegen/mission-control/internal/events"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// TaskService orchestrates scheduled-task use cases.
type TaskService struct {
	store store.Store
	bus   *events.Bus
}

func NewTaskService(s store.Store, bus *events.Bus) *TaskService {
	return &TaskService{store: s, bus: bus}
}

func (s *TaskService) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	if err := validate.CreateTask(t.Title, t.Status, t.Priority); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	out, err := s.store.Tasks().Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.TaskCreated, ID: out.ID})
	return out, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.store.Tasks().Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context, req model.ListTasksRequest) ([]*model.Task, error) {
	return s.store.Tasks().List(ctx, req)
}

// Update applies only the explicitly supplied patch fields; absent fields
// never overwrite stored values.
func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	if err := validate.TaskPatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	out, err := s.store.Tasks().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.TaskUpdated, ID: id})
	return out, nil
}

// Complete marks a task completed. This is the only status shortcut the
// calendar view triggers directly.
func (s *TaskService) Complete(ctx context.Context, id string) (*model.Task, error) {
	done := model.TaskCompleted
	return s.Update(ctx, id, model.TaskPatch{Status: &done})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.store.Tasks().Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Kind: events.TaskDeleted, ID: id})
	return nil
}
