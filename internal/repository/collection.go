package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document matches the requested id.
var ErrNotFound = errors.New("document not found")

// Collection names shared by every backend.
const (
	CollectionAreas       = "areas"
	CollectionManagers    = "managers"
	CollectionDepartments = "departments"
	CollectionEmployees   = "employees"
)

// Filter matches documents where any of Fields equals any of Values.
type Filter struct {
	Fields []string
	Values []string
}

func (f Filter) empty() bool {
	return len(f.Fields) == 0 || len(f.Values) == 0
}

// Collection is the document-store surface the repositories are built on.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter Filter) ([]T, error)
	Insert(ctx context.Context, id string, doc *T) error
	Replace(ctx context.Context, id string, doc *T) error
	Delete(ctx context.Context, id string) error
}
