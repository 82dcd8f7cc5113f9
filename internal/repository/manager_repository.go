package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// ManagerRepository manages manager persistence.
type ManagerRepository interface {
	Create(ctx context.Context, manager *domain.Manager) error
	Update(ctx context.Context, manager *domain.Manager) error
	GetByID(ctx context.Context, id string) (*domain.Manager, error)
	List(ctx context.Context) ([]domain.Manager, error)
	FindByName(ctx context.Context, name string) ([]domain.Manager, error)
	Delete(ctx context.Context, id string) error
}

type managerRepository struct {
	docs Collection[domain.Manager]
}

// NewManagerRepository builds the repository over a document collection.
func NewManagerRepository(docs Collection[domain.Manager]) ManagerRepository {
	return &managerRepository{docs: docs}
}

func (r *managerRepository) Create(ctx context.Context, manager *domain.Manager) error {
	manager.ID = uuid.NewString()
	return r.docs.Insert(ctx, manager.ID, manager)
}

func (r *managerRepository) Update(ctx context.Context, manager *domain.Manager) error {
	return r.docs.Replace(ctx, manager.ID, manager)
}

func (r *managerRepository) GetByID(ctx context.Context, id string) (*domain.Manager, error) {
	return r.docs.Get(ctx, id)
}

func (r *managerRepository) List(ctx context.Context) ([]domain.Manager, error) {
	return r.docs.List(ctx)
}

func (r *managerRepository) FindByName(ctx context.Context, name string) ([]domain.Manager, error) {
	return r.docs.Find(ctx, Filter{Fields: []string{"name"}, Values: []string{name}})
}

func (r *managerRepository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}
