package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	FindByNames(ctx context.Context, names ...string) ([]domain.Department, error)
	FindByManagerName(ctx context.Context, managerName string) ([]domain.Department, error)
	Delete(ctx context.Context, id string) error
}

type departmentRepository struct {
	docs Collection[domain.Department]
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(docs Collection[domain.Department]) DepartmentRepository {
	return &departmentRepository{docs: docs}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	dept.ID = uuid.NewString()
	return r.docs.Insert(ctx, dept.ID, dept)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	return r.docs.Replace(ctx, dept.ID, dept)
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	return r.docs.Get(ctx, id)
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	return r.docs.List(ctx)
}

func (r *departmentRepository) FindByNames(ctx context.Context, names ...string) ([]domain.Department, error) {
	return r.docs.Find(ctx, Filter{Fields: []string{"name"}, Values: names})
}

func (r *departmentRepository) FindByManagerName(ctx context.Context, managerName string) ([]domain.Department, error) {
	return r.docs.Find(ctx, Filter{Fields: []string{"managerName"}, Values: []string{managerName}})
}

func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}
