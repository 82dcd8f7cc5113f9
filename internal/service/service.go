package service

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/lock"
	"github.com/spec-kit/personnel-directory/internal/observability"
	"github.com/spec-kit/personnel-directory/internal/repository"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

// Lock key kinds.
const (
	lockArea       = "area"
	lockManager    = "manager"
	lockDepartment = "department"
)

// Dependencies encapsulates what every directory service needs.
type Dependencies struct {
	Repos      repository.Repositories
	Locker     lock.Locker
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// base carries the plumbing shared by the entity services.
type base struct {
	locker     lock.Locker
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func newBase(deps Dependencies) base {
	b := base{
		locker:     deps.Locker,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if b.locker == nil {
		b.locker = lock.NewMemoryLocker(0)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// acquire takes the reference locks for keys and maps lock failures to domain errors.
func (b base) acquire(ctx context.Context, keys ...string) (lock.Unlock, error) {
	unlock, err := b.locker.Lock(ctx, keys...)
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return nil, apperrors.NewConflict("resource is busy, retry", map[string]any{"keys": keys})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return unlock, nil
}

// maxLockAttempts bounds how often lockCurrent chases a record whose keys
// moved under a concurrent rename.
const maxLockAttempts = 3

// lockCurrent takes the keys derived from current, re-reads the record under
// those keys and returns the fresh copy with the keys still held. load may
// return a nil record, in which case keysFor must accept nil.
func lockCurrent[T any](ctx context.Context, b base, current *T,
	load func(context.Context) (*T, error), keysFor func(*T) []string) (*T, lock.Unlock, error) {
	for attempt := 1; ; attempt++ {
		keys := keysFor(current)
		unlock, err := b.acquire(ctx, keys...)
		if err != nil {
			return nil, nil, err
		}
		fresh, err := load(ctx)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if lo.Every(keys, keysFor(fresh)) {
			return fresh, unlock, nil
		}
		unlock()
		if attempt == maxLockAttempts {
			return nil, nil, apperrors.NewConflict("resource is busy, retry", map[string]any{"keys": keys})
		}
		current = fresh
	}
}

// publish emits a domain event. Subscriber failures are logged only.
func (b base) publish(ctx context.Context, entity events.Entity, action events.Action, id string, payload any) {
	if b.dispatcher == nil {
		return
	}
	event := events.NewEvent(entity, action, id, payload)
	if err := b.dispatcher.Publish(ctx, event); err != nil {
		b.logger.Warn("event subscriber failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", id),
			zap.Error(err))
	}
}

// reject records a referential-check rejection and returns err unchanged.
func (b base) reject(entity events.Entity, reason string, err error) error {
	b.metrics.RecordRejection(string(entity), reason)
	return err
}

// nameKeys builds lock keys for the non-empty names.
func nameKeys(kind string, names ...string) []string {
	return lo.Map(lo.Compact(names), func(name string, _ int) string {
		return lock.Key(kind, name)
	})
}

// validationFailed converts ozzo validation errors into a VALIDATION_FAILED error.
func validationFailed(err error) error {
	return apperrors.FromValidation(err)
}

// mapRepoError maps repository errors for a lookup of resource by id.
func mapRepoError(err error, resource, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.NewInternalError(err)
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func strPtr(s string) *string {
	return &s
}
