package services

import (
	"context"
	"fmt"

	"github.com/vibegen/mission-control/internal/api/validate"
	"github.com/vibegen/mission-control/internal/events"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// MemoryService orchestrates memory (note) use cases. Memories are
// append-and-delete only; there is no update path.
type MemoryService struct {
	store store.Store
	bus   *events.Bus
}

func NewMemoryService(s store.Store, bus *events.Bus) *MemoryService {
	return &MemoryService{store: s, bus: bus}
}

func (s *MemoryService) Create(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	if err := validate.CreateMemory(m.Content, m.Importance); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	out, err := s.store.Memories().Create(ctx, m)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.MemoryCreated, ID: out.ID})
	return out, nil
}

func (s *MemoryService) List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error) {
	if req.Importance != nil {
		if err := validate.Level("importance", *req.Importance); err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
		}
	}
	return s.store.Memories().List(ctx, req)
}

func (s *MemoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Memories().Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Kind: events.MemoryDeleted, ID: id})
	return nil
}
