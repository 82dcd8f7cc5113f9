package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent(EntityDepartment, ActionDeleted, "d-1", map[string]string{"name": "Sales"})
	assert.Equal(t, EventType("department.deleted"), ev.Type)
	assert.Equal(t, EntityDepartment, ev.Entity)
	assert.Equal(t, "d-1", ev.EntityID)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestDispatcher_RoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var typed, all []EventType

	d.Subscribe(TypeOf(EntityArea, ActionCreated), func(_ context.Context, e Event) error {
		typed = append(typed, e.Type)
		return nil
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, e.Type)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, NewEvent(EntityArea, ActionCreated, "a", nil)))
	require.NoError(t, d.Publish(ctx, NewEvent(EntityManager, ActionDeleted, "m", nil)))

	assert.Equal(t, []EventType{"area.created"}, typed)
	assert.Equal(t, []EventType{"area.created", "manager.deleted"}, all)
}

func TestDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0

	d.SubscribeAll(func(context.Context, Event) error { calls++; return boom })
	d.SubscribeAll(func(context.Context, Event) error { calls++; return nil })

	err := d.Publish(context.Background(), NewEvent(EntityEmployee, ActionUpdated, "e", nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewKafkaPublisherValidatesConfig(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{Topic: "t"}, nil)
	assert.Error(t, err)
	_, err = NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)
}
