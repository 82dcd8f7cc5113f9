package service

import (
	"context"

	"github.com/spec-kit/personnel-directory/internal/domain"
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/repository"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

// AreaInput carries every area field.
type AreaInput struct {
	Name     string
	Building string
}

// AreaPatch carries the fields present in a partial update.
type AreaPatch struct {
	Name     *string
	Building *string
}

// AreaService manages areas.
type AreaService struct {
	base
	areas repository.AreaRepository
}

// NewAreaService constructs the service.
func NewAreaService(deps Dependencies) *AreaService {
	return &AreaService{base: newBase(deps), areas: deps.Repos.Areas}
}

// Create inserts a new area.
func (s *AreaService) Create(ctx context.Context, in AreaInput) (*domain.Area, error) {
	area := &domain.Area{Name: in.Name, Building: in.Building}
	if err := area.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	if err := s.areas.Create(ctx, area); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EntityArea, events.ActionCreated, area.ID, area)
	return area, nil
}

// List returns every area.
func (s *AreaService) List(ctx context.Context) ([]domain.Area, error) {
	areas, err := s.areas.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return areas, nil
}

// GetByID fetches an area.
func (s *AreaService) GetByID(ctx context.Context, id string) (*domain.Area, error) {
	area, err := s.areas.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "area", id)
	}
	return area, nil
}

// Update replaces every field of the area.
func (s *AreaService) Update(ctx context.Context, id string, in AreaInput) (*domain.Area, error) {
	return s.UpdatePartial(ctx, id, AreaPatch{Name: strPtr(in.Name), Building: strPtr(in.Building)})
}

// UpdatePartial merges the present fields into the area.
func (s *AreaService) UpdatePartial(ctx context.Context, id string, patch AreaPatch) (*domain.Area, error) {
	area, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	area, unlock, err := lockCurrent(ctx, s.base, area, s.loader(id), func(a *domain.Area) []string {
		keys := nameKeys(lockArea, a.Name)
		if patch.Name != nil {
			keys = append(keys, nameKeys(lockArea, *patch.Name)...)
		}
		return keys
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	setIfPresent(&area.Name, patch.Name)
	setIfPresent(&area.Building, patch.Building)
	if err := area.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, mapRepoError(err, "area", id)
	}
	s.publish(ctx, events.EntityArea, events.ActionUpdated, area.ID, area)
	return area, nil
}

// Delete removes the area. Departments naming it are not checked, so their
// areaName is left dangling.
func (s *AreaService) Delete(ctx context.Context, id string) (*domain.Area, error) {
	area, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	area, unlock, err := lockCurrent(ctx, s.base, area, s.loader(id), func(a *domain.Area) []string {
		return nameKeys(lockArea, a.Name)
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.areas.Delete(ctx, id); err != nil {
		return nil, mapRepoError(err, "area", id)
	}
	s.publish(ctx, events.EntityArea, events.ActionDeleted, area.ID, area)
	return area, nil
}

func (s *AreaService) loader(id string) func(context.Context) (*domain.Area, error) {
	return func(ctx context.Context) (*domain.Area, error) { return s.GetByID(ctx, id) }
}
