package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/personnel-directory/internal/events"
)

// AuditService writes an audit line for every directory change.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.SubscribeAll(a.handleChange)
	for _, entity := range []events.Entity{events.EntityManager, events.EntityDepartment} {
		a.dispatcher.Subscribe(events.TypeOf(entity, events.ActionDeleted), a.handleGuardedDelete)
	}
}

func (a *AuditService) handleChange(_ context.Context, event events.Event) error {
	a.logger.Info("directory changed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.Any("payload", event.Payload))
	return nil
}

// handleGuardedDelete notes deletions that passed a referential guard. Names
// pointing at the removed record from elsewhere are not rewritten.
func (a *AuditService) handleGuardedDelete(_ context.Context, event events.Event) error {
	a.logger.Debug("guarded delete passed",
		zap.String("entity", string(event.Entity)),
		zap.String("entity_id", event.EntityID))
	return nil
}
