package services

import (
	"context"
	"fmt"

	"github.com/vibegen/mission-control/internal/api/validate"
	"github.com/vibegen/mission-control/internal/events"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// DocumentService orchestrates document-store use cases.
type DocumentService struct {
	store store.Store
	bus   *events.Bus
}

func NewDocumentService(s store.Store, bus *events.Bus) *DocumentService {
	return &DocumentService{store: s, bus: bus}
}

func (s *DocumentService) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	if err := validate.CreateDocument(d.Title, d.Content, d.Type); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	out, err := s.store.Documents().Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.DocumentCreated, ID: out.ID})
	return out, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	return s.store.Documents().Get(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, req model.ListDocumentsRequest) ([]*model.Document, error) {
	return s.store.Documents().List(ctx, req)
}

func (s *DocumentService) Update(ctx context.Context, id string, patch model.DocumentPatch) (*model.Document, error) {
	if err := validate.DocumentPatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	out, err := s.store.Documents().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.DocumentUpdated, ID: id})
	return out, nil
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Documents().Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Kind: events.DocumentDeleted, ID: id})
	return nil
}
