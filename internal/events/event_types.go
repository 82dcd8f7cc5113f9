package events

import (
	"time"

	"github.com/google/uuid"
)

// Entity names the collection an event is about.
type Entity string

const (
	EntityArea       Entity = "area"
	EntityManager    Entity = "manager"
	EntityDepartment Entity = "department"
	EntityEmployee   Entity = "employee"
)

// Action is what happened to the entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EventType enumerates supported event identifiers, e.g. "department.deleted".
type EventType string

// TypeOf builds the event type for an entity/action pair.
func TypeOf(entity Entity, action Action) EventType {
	return EventType(string(entity) + "." + string(action))
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Entity    Entity    `json:"entity"`
	EntityID  string    `json:"entityId"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(entity Entity, action Action, entityID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      TypeOf(entity, action),
		Entity:    entity,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
