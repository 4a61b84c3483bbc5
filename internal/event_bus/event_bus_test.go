package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_RunsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	bus.Subscribe(TimeEntriesChangedType, func(e Event) error {
		calls = append(calls, "first")
		return nil
	})
	bus.Subscribe(TimeEntriesChangedType, func(e Event) error {
		calls = append(calls, "second")
		return nil
	})
	bus.Subscribe(UserConfigUpdatedType, func(e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), TimeEntriesChangedType, TimeEntriesChanged{UserId: 1}))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []TimeEntriesChanged
	SubscribeTyped(bus, TimeEntriesChangedType, func(e EventT[TimeEntriesChanged]) error {
		received = append(received, e.Data)
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), TimeEntriesChangedType, TimeEntriesChanged{UserId: 7, Change: EntriesImported, Count: 3})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TimeEntriesChangedType, "not a change")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TimeEntriesChangedType, nil)))

	assert.Equal(t, []TimeEntriesChanged{{UserId: 7, Change: EntriesImported, Count: 3}}, received)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	unsubscribe := bus.Subscribe(UserConfigUpdatedType, func(e Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), UserConfigUpdatedType, UserConfigUpdated{})))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), UserConfigUpdatedType, UserConfigUpdated{})))

	assert.Equal(t, 1, calls)
}

func TestPublish_CollectsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewEventBus()
	failure := errors.New("boom")
	reached := false
	bus.Subscribe(TimeEntriesChangedType, func(e Event) error { return failure })
	bus.Subscribe(TimeEntriesChangedType, func(e Event) error { panic("handler exploded") })
	bus.Subscribe(TimeEntriesChangedType, func(e Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), TimeEntriesChangedType, TimeEntriesChanged{}))

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
	assert.Contains(t, err.Error(), "handler exploded")
	assert.True(t, reached)
}

func TestPublish_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(TimeEntriesChangedType, func(e Event) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, TimeEntriesChangedType, TimeEntriesChanged{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestEvent_ContextDefaultsToBackground(t *testing.T) {
	assert.NotNil(t, Event{}.Context())
	assert.NotNil(t, EventT[UserConfigUpdated]{}.Context())
}
