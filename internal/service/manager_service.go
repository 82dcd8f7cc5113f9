package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/spec-kit/personnel-directory/internal/domain"
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/repository"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

// ManagerInput carries every manager field.
type ManagerInput struct {
	Name         string
	FieldOfStudy string
	Shift        string
}

// ManagerPatch carries the fields present in a partial update.
type ManagerPatch struct {
	Name         *string
	FieldOfStudy *string
	Shift        *string
}

// ManagerService manages managers and guards their deletion.
type ManagerService struct {
	base
	managers    repository.ManagerRepository
	departments repository.DepartmentRepository
}

// NewManagerService constructs the service.
func NewManagerService(deps Dependencies) *ManagerService {
	return &ManagerService{
		base:        newBase(deps),
		managers:    deps.Repos.Managers,
		departments: deps.Repos.Departments,
	}
}

// Create inserts a new manager.
func (s *ManagerService) Create(ctx context.Context, in ManagerInput) (*domain.Manager, error) {
	manager := &domain.Manager{Name: in.Name, FieldOfStudy: in.FieldOfStudy, Shift: in.Shift}
	if err := manager.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	if err := s.managers.Create(ctx, manager); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EntityManager, events.ActionCreated, manager.ID, manager)
	return manager, nil
}

// List returns every manager.
func (s *ManagerService) List(ctx context.Context) ([]domain.Manager, error) {
	managers, err := s.managers.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return managers, nil
}

// GetByID fetches a manager.
func (s *ManagerService) GetByID(ctx context.Context, id string) (*domain.Manager, error) {
	manager, err := s.managers.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "manager", id)
	}
	return manager, nil
}

// Update replaces every field of the manager.
func (s *ManagerService) Update(ctx context.Context, id string, in ManagerInput) (*domain.Manager, error) {
	return s.UpdatePartial(ctx, id, ManagerPatch{
		Name:         strPtr(in.Name),
		FieldOfStudy: strPtr(in.FieldOfStudy),
		Shift:        strPtr(in.Shift),
	})
}

// UpdatePartial merges the present fields into the manager.
func (s *ManagerService) UpdatePartial(ctx context.Context, id string, patch ManagerPatch) (*domain.Manager, error) {
	manager, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	manager, unlock, err := lockCurrent(ctx, s.base, manager, s.loader(id), func(m *domain.Manager) []string {
		keys := nameKeys(lockManager, m.Name)
		if patch.Name != nil {
			keys = append(keys, nameKeys(lockManager, *patch.Name)...)
		}
		return keys
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	setIfPresent(&manager.Name, patch.Name)
	setIfPresent(&manager.FieldOfStudy, patch.FieldOfStudy)
	setIfPresent(&manager.Shift, patch.Shift)
	if err := manager.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	if err := s.managers.Update(ctx, manager); err != nil {
		return nil, mapRepoError(err, "manager", id)
	}
	s.publish(ctx, events.EntityManager, events.ActionUpdated, manager.ID, manager)
	return manager, nil
}

// Delete removes the manager unless a department names it as its manager.
func (s *ManagerService) Delete(ctx context.Context, id string) (*domain.Manager, error) {
	manager, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	manager, unlock, err := lockCurrent(ctx, s.base, manager, s.loader(id), func(m *domain.Manager) []string {
		return nameKeys(lockManager, m.Name)
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	assigned, err := s.departments.FindByManagerName(ctx, manager.Name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(assigned) > 0 {
		return nil, s.reject(events.EntityManager, "assigned_to_department",
			apperrors.NewConflict("manager is assigned to a department", map[string]any{
				"manager":     manager.Name,
				"departments": lo.Map(assigned, func(d domain.Department, _ int) string { return d.Name }),
			}))
	}

	if err := s.managers.Delete(ctx, id); err != nil {
		return nil, mapRepoError(err, "manager", id)
	}
	s.publish(ctx, events.EntityManager, events.ActionDeleted, manager.ID, manager)
	return manager, nil
}

func (s *ManagerService) loader(id string) func(context.Context) (*domain.Manager, error) {
	return func(ctx context.Context) (*domain.Manager, error) { return s.GetByID(ctx, id) }
}
