package services

import (
	"context"
	"fmt"

	"github.com/vibegen/mission-control/internal/api/validate"
	"github.com/vibegen/mission-control/internal/events"
	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/store"
)

// ActivityService orchestrates activity-log use cases.
type ActivityService struct {
	store store.Store
	bus   *events.Bus
}

func NewActivityService(s store.Store, bus *events.Bus) *ActivityService {
	return &ActivityService{store: s, bus: bus}
}

func (s *ActivityService) Create(ctx context.Context, a *model.Activity) (*model.Activity, error) {
	if err := validate.CreateActivity(a.ActionType, a.Description, a.Status); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	out, err := s.store.Activities().Create(ctx, a)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.ActivityCreated, ID: out.ID})
	return out, nil
}

func (s *ActivityService) List(ctx context.Context, req model.ListActivitiesRequest) ([]*model.Activity, error) {
	if req.Status != nil {
		if err := validate.ActivityStatus(*req.Status); err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
		}
	}
	return s.store.Activities().List(ctx, req)
}

// LatestByActionType returns the newest record with the given action type,
// or model.ErrNotFound.
func (s *ActivityService) LatestByActionType(ctx context.Context, actionType string) (*model.Activity, error) {
	return s.store.Activities().LatestByActionType(ctx, actionType)
}

func (s *ActivityService) Delete(ctx context.Context, id string) error {
	if err := s.store.Activities().Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Kind: events.ActivityDeleted, ID: id})
	return nil
}

// ClearAll wipes the whole log in one bulk operation.
func (s *ActivityService) ClearAll(ctx context.Context) error {
	if err := s.store.Activities().DeleteAll(ctx); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Kind: events.ActivityCleared})
	return nil
}
