package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

// AreaRepository manages area persistence.
type AreaRepository interface {
	Create(ctx context.Context, area *domain.Area) error
	Update(ctx context.Context, area *domain.Area) error
	GetByID(ctx context.Context, id string) (*domain.Area, error)
	List(ctx context.Context) ([]domain.Area, error)
	FindByName(ctx context.Context, name string) ([]domain.Area, error)
	Delete(ctx context.Context, id string) error
}

type areaRepository struct {
	docs Collection[domain.Area]
}

// NewAreaRepository builds the repository over a document collection.
func NewAreaRepository(docs Collection[domain.Area]) AreaRepository {
	return &areaRepository{docs: docs}
}

func (r *areaRepository) Create(ctx context.Context, area *domain.Area) error {
	area.ID = uuid.NewString()
	return r.docs.Insert(ctx, area.ID, area)
}

func (r *areaRepository) Update(ctx context.Context, area *domain.Area) error {
	return r.docs.Replace(ctx, area.ID, area)
}

func (r *areaRepository) GetByID(ctx context.Context, id string) (*domain.Area, error) {
	return r.docs.Get(ctx, id)
}

func (r *areaRepository) List(ctx context.Context) ([]domain.Area, error) {
	return r.docs.List(ctx)
}

func (r *areaRepository) FindByName(ctx context.Context, name string) ([]domain.Area, error) {
	return r.docs.Find(ctx, Filter{Fields: []string{"name"}, Values: []string{name}})
}

func (r *areaRepository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}
