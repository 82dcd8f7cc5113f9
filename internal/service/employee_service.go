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

// EmployeeInput carries every employee field.
type EmployeeInput struct {
	FirstName       string
	LastName        string
	Age             int
	Gender          string
	DepartmentName1 string
	DepartmentName2 string
	DepartmentName3 string
}

// EmployeePatch carries the fields present in a partial update.
type EmployeePatch struct {
	FirstName       *string
	LastName        *string
	Age             *int
	Gender          *string
	DepartmentName1 *string
	DepartmentName2 *string
	DepartmentName3 *string
}

func (p EmployeePatch) departmentNames() []string {
	var names []string
	for _, name := range []*string{p.DepartmentName1, p.DepartmentName2, p.DepartmentName3} {
		if name != nil {
			names = append(names, *name)
		}
	}
	return lo.Compact(names)
}

// EmployeeService manages employees and their department references.
type EmployeeService struct {
	base
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps Dependencies) *EmployeeService {
	return &EmployeeService{
		base:        newBase(deps),
		employees:   deps.Repos.Employees,
		departments: deps.Repos.Departments,
	}
}

// Create inserts an employee after checking its department names.
func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error) {
	employee := &domain.Employee{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Age:             in.Age,
		Gender:          in.Gender,
		DepartmentName1: in.DepartmentName1,
		DepartmentName2: in.DepartmentName2,
		DepartmentName3: in.DepartmentName3,
	}
	if err := employee.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	names := employee.DepartmentNames()
	unlock, err := s.acquire(ctx, nameKeys(lockDepartment, names...)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkDepartments(ctx, names); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EntityEmployee, events.ActionCreated, employee.ID, employee)
	return employee, nil
}

// List returns every employee.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return employees, nil
}

// GetByID fetches an employee.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "employee", id)
	}
	return employee, nil
}

// Update replaces every field of the employee.
func (s *EmployeeService) Update(ctx context.Context, id string, in EmployeeInput) (*domain.Employee, error) {
	age := in.Age
	return s.UpdatePartial(ctx, id, EmployeePatch{
		FirstName:       strPtr(in.FirstName),
		LastName:        strPtr(in.LastName),
		Age:             &age,
		Gender:          strPtr(in.Gender),
		DepartmentName1: strPtr(in.DepartmentName1),
		DepartmentName2: strPtr(in.DepartmentName2),
		DepartmentName3: strPtr(in.DepartmentName3),
	})
}

// UpdatePartial merges the present fields into the employee. Only the
// department names present in patch are checked.
func (s *EmployeeService) UpdatePartial(ctx context.Context, id string, patch EmployeePatch) (*domain.Employee, error) {
	names := patch.departmentNames()
	load := s.loader(id, true)
	current, err := load(ctx)
	if err != nil {
		return nil, err
	}

	employee, unlock, err := lockCurrent(ctx, s.base, current, load, func(e *domain.Employee) []string {
		keys := nameKeys(lockDepartment, names...)
		if e != nil {
			keys = append(keys, nameKeys(lockDepartment, e.DepartmentNames()...)...)
		}
		return keys
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkDepartments(ctx, names); err != nil {
		return nil, err
	}

	if employee == nil {
		return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	setIfPresent(&employee.FirstName, patch.FirstName)
	setIfPresent(&employee.LastName, patch.LastName)
	setIfPresent(&employee.Gender, patch.Gender)
	setIfPresent(&employee.DepartmentName1, patch.DepartmentName1)
	setIfPresent(&employee.DepartmentName2, patch.DepartmentName2)
	setIfPresent(&employee.DepartmentName3, patch.DepartmentName3)
	if patch.Age != nil {
		employee.Age = *patch.Age
	}
	if err := employee.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, mapRepoError(err, "employee", id)
	}
	s.publish(ctx, events.EntityEmployee, events.ActionUpdated, employee.ID, employee)
	return employee, nil
}

// Delete removes an employee whose named departments no longer exist.
func (s *EmployeeService) Delete(ctx context.Context, id string) (*domain.Employee, error) {
	load := s.loader(id, false)
	current, err := load(ctx)
	if err != nil {
		return nil, err
	}

	employee, unlock, err := lockCurrent(ctx, s.base, current, load, func(e *domain.Employee) []string {
		return nameKeys(lockDepartment, e.DepartmentNames()...)
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	names := employee.DepartmentNames()

	if len(names) > 0 {
		existing, err := s.departments.FindByNames(ctx, names...)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if len(existing) > 0 {
			return nil, s.reject(events.EntityEmployee, "assigned_to_departments",
				apperrors.NewConflict("employee still assigned to existing departments", map[string]any{
					"departments": lo.Map(existing, func(d domain.Department, _ int) string { return d.Name }),
				}))
		}
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		return nil, mapRepoError(err, "employee", id)
	}
	s.publish(ctx, events.EntityEmployee, events.ActionDeleted, employee.ID, employee)
	return employee, nil
}

// checkDepartments compares the number of departments found for the distinct
// names against the number of distinct names. Names are not resolved one by one.
func (s *EmployeeService) checkDepartments(ctx context.Context, names []string) error {
	distinct := lo.Uniq(lo.Compact(names))
	if len(distinct) == 0 {
		return nil
	}
	found, err := s.departments.FindByNames(ctx, distinct...)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if len(found) < len(distinct) {
		return s.reject(events.EntityEmployee, "departments_missing",
			apperrors.NewValidationError("one or more departments do not exist", map[string]any{
				"departmentNames": distinct,
			}))
	}
	return nil
}

// loader reads the employee by id. With allowMissing a missing employee loads
// as nil instead of NotFound.
func (s *EmployeeService) loader(id string, allowMissing bool) func(context.Context) (*domain.Employee, error) {
	return func(ctx context.Context) (*domain.Employee, error) {
		employee, err := s.employees.GetByID(ctx, id)
		if allowMissing && errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, mapRepoError(err, "employee", id)
		}
		return employee, nil
	}
}
