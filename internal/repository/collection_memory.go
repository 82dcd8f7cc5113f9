package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// memoryCollection keeps JSON-encoded documents in insertion order so field
// matching follows the same semantics as the JSONB backend.
type memoryCollection[T any] struct {
	mu    sync.RWMutex
	order []string
	docs  map[string][]byte
}

// NewMemoryCollection returns an in-process collection.
func NewMemoryCollection[T any]() Collection[T] {
	return &memoryCollection[T]{docs: make(map[string][]byte)}
}

func (c *memoryCollection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]T, 0, len(c.order))
	for _, id := range c.order {
		var doc T
		if err := json.Unmarshal(c.docs[id], &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *memoryCollection[T]) Get(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	raw, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &doc, nil
}

func (c *memoryCollection[T]) Find(_ context.Context, filter Filter) ([]T, error) {
	if filter.empty() {
		return []T{}, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []T{}
	for _, id := range c.order {
		raw := c.docs[id]
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		matched := lo.SomeBy(filter.Fields, func(field string) bool {
			val, ok := fields[field].(string)
			return ok && lo.Contains(filter.Values, val)
		})
		if !matched {
			continue
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *memoryCollection[T]) Insert(_ context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return fmt.Errorf("duplicate id %s", id)
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection[T]) Replace(_ context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; !exists {
		return ErrNotFound
	}
	c.docs[id] = raw
	return nil
}

func (c *memoryCollection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; !exists {
		return ErrNotFound
	}
	delete(c.docs, id)
	c.order = lo.Without(c.order, id)
	return nil
}
