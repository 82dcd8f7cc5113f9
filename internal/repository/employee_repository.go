package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

var employeeDepartmentFields = []string{"departmentName1", "departmentName2", "departmentName3"}

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	FindByDepartmentName(ctx context.Context, departmentName string) ([]domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

type employeeRepository struct {
	docs Collection[domain.Employee]
}

// NewEmployeeRepository builds the repository.
func NewEmployeeRepository(docs Collection[domain.Employee]) EmployeeRepository {
	return &employeeRepository{docs: docs}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	employee.ID = uuid.NewString()
	return r.docs.Insert(ctx, employee.ID, employee)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	return r.docs.Replace(ctx, employee.ID, employee)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.docs.Get(ctx, id)
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	return r.docs.List(ctx)
}

// FindByDepartmentName returns employees naming the department in any slot.
func (r *employeeRepository) FindByDepartmentName(ctx context.Context, departmentName string) ([]domain.Employee, error) {
	return r.docs.Find(ctx, Filter{Fields: employeeDepartmentFields, Values: []string{departmentName}})
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}
