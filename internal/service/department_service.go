package service

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/spec-kit/personnel-directory/internal/domain"
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/repository"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

// DepartmentInput carries every department field.
type DepartmentInput struct {
	Name        string
	ManagerName string
	AreaName    string
}

// DepartmentPatch carries the fields present in a partial update. Only the
// references present here are re-validated.
type DepartmentPatch struct {
	Name        *string
	ManagerName *string
	AreaName    *string
}

// DepartmentService manages departments and resolves their area and manager references.
type DepartmentService struct {
	base
	departments repository.DepartmentRepository
	areas       repository.AreaRepository
	managers    repository.ManagerRepository
	employees   repository.EmployeeRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps Dependencies) *DepartmentService {
	return &DepartmentService{
		base:        newBase(deps),
		departments: deps.Repos.Departments,
		areas:       deps.Repos.Areas,
		managers:    deps.Repos.Managers,
		employees:   deps.Repos.Employees,
	}
}

// Create inserts a department whose area exists and whose manager, if named, exists.
func (s *DepartmentService) Create(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	dept := &domain.Department{Name: in.Name, ManagerName: in.ManagerName, AreaName: in.AreaName}
	if err := dept.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	keys := append(nameKeys(lockDepartment, dept.Name), nameKeys(lockArea, dept.AreaName)...)
	keys = append(keys, nameKeys(lockManager, dept.ManagerName)...)
	unlock, err := s.acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkArea(ctx, dept.AreaName); err != nil {
		return nil, err
	}
	if dept.HasManager() {
		if err := s.checkManager(ctx, dept.ManagerName); err != nil {
			return nil, err
		}
	}

	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EntityDepartment, events.ActionCreated, dept.ID, dept)
	return dept, nil
}

// List returns every department.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return depts, nil
}

// GetByID fetches a department.
func (s *DepartmentService) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "department", id)
	}
	return dept, nil
}

// Update replaces every field of the department. References are checked
// when non-empty.
func (s *DepartmentService) Update(ctx context.Context, id string, in DepartmentInput) (*domain.Department, error) {
	return s.UpdatePartial(ctx, id, DepartmentPatch{
		Name:        strPtr(in.Name),
		ManagerName: strPtr(in.ManagerName),
		AreaName:    strPtr(in.AreaName),
	})
}

// UpdatePartial checks the non-empty references present in patch and then
// merges it into the department. A missing department is reported only after
// the reference checks pass.
func (s *DepartmentService) UpdatePartial(ctx context.Context, id string, patch DepartmentPatch) (*domain.Department, error) {
	load := s.loader(id, true)
	current, err := load(ctx)
	if err != nil {
		return nil, err
	}

	dept, unlock, err := lockCurrent(ctx, s.base, current, load, func(d *domain.Department) []string {
		var keys []string
		if d != nil {
			keys = nameKeys(lockDepartment, d.Name)
		}
		if patch.Name != nil {
			keys = append(keys, nameKeys(lockDepartment, *patch.Name)...)
		}
		if patch.AreaName != nil {
			keys = append(keys, nameKeys(lockArea, *patch.AreaName)...)
		}
		if patch.ManagerName != nil {
			keys = append(keys, nameKeys(lockManager, *patch.ManagerName)...)
		}
		return keys
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	if patch.AreaName != nil && *patch.AreaName != "" {
		if err := s.checkArea(ctx, *patch.AreaName); err != nil {
			return nil, err
		}
	}
	if patch.ManagerName != nil && *patch.ManagerName != "" {
		if err := s.checkManager(ctx, *patch.ManagerName); err != nil {
			return nil, err
		}
	}

	if dept == nil {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	setIfPresent(&dept.Name, patch.Name)
	setIfPresent(&dept.ManagerName, patch.ManagerName)
	setIfPresent(&dept.AreaName, patch.AreaName)
	if err := dept.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, mapRepoError(err, "department", id)
	}
	s.publish(ctx, events.EntityDepartment, events.ActionUpdated, dept.ID, dept)
	return dept, nil
}

// Delete removes a department that no employee lists and that has no manager assigned.
func (s *DepartmentService) Delete(ctx context.Context, id string) (*domain.Department, error) {
	load := s.loader(id, false)
	current, err := load(ctx)
	if err != nil {
		return nil, err
	}

	dept, unlock, err := lockCurrent(ctx, s.base, current, load, func(d *domain.Department) []string {
		return nameKeys(lockDepartment, d.Name)
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	assigned, err := s.employees.FindByDepartmentName(ctx, dept.Name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(assigned) > 0 {
		return nil, s.reject(events.EntityDepartment, "assigned_employees",
			apperrors.NewConflict("department has assigned employees", map[string]any{
				"department": dept.Name,
				"employees":  lo.Map(assigned, func(e domain.Employee, _ int) string { return e.ID }),
			}))
	}
	if dept.HasManager() {
		return nil, s.reject(events.EntityDepartment, "assigned_manager",
			apperrors.NewConflict("department has an assigned manager", map[string]any{
				"department": dept.Name,
				"manager":    dept.ManagerName,
			}))
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		return nil, mapRepoError(err, "department", id)
	}
	s.publish(ctx, events.EntityDepartment, events.ActionDeleted, dept.ID, dept)
	return dept, nil
}

func (s *DepartmentService) checkArea(ctx context.Context, name string) error {
	var areas []domain.Area
	if name != "" {
		found, err := s.areas.FindByName(ctx, name)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		areas = found
	}
	if len(areas) == 0 {
		return s.reject(events.EntityDepartment, "area_not_found",
			apperrors.NewValidationError("area not found", map[string]any{"areaName": name}))
	}
	return nil
}

func (s *DepartmentService) checkManager(ctx context.Context, name string) error {
	managers, err := s.managers.FindByName(ctx, name)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if len(managers) == 0 {
		return s.reject(events.EntityDepartment, "manager_not_found",
			apperrors.NewValidationError("manager not found", map[string]any{"managerName": name}))
	}
	return nil
}

// loader reads the department by id. With allowMissing a missing department
// loads as nil instead of NotFound.
func (s *DepartmentService) loader(id string, allowMissing bool) func(context.Context) (*domain.Department, error) {
	return func(ctx context.Context) (*domain.Department, error) {
		dept, err := s.departments.GetByID(ctx, id)
		if allowMissing && errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, mapRepoError(err, "department", id)
		}
		return dept, nil
	}
}
