package worker

import (
	"github.com/spec-kit/personnel-directory/internal/events"
	"github.com/spec-kit/personnel-directory/internal/service"
)

// StartAuditWorker registers the audit handlers and, when configured, the
// Kafka forwarder on the dispatcher.
func StartAuditWorker(dispatcher events.Dispatcher, audit *service.AuditService, kafka *events.KafkaPublisher) {
	if audit != nil {
		audit.RegisterHandlers()
	}
	if dispatcher != nil && kafka != nil {
		dispatcher.SubscribeAll(kafka.Handle)
	}
}
