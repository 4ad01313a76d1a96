package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topicTest Topic = "test.happened"

func TestBusDeliversInRegistrationOrder(t *testing.T) {
	var calls []string
	var failures []error

	bus := NewBus(
		func(_ Event, err error) { failures = append(failures, err) },
		Subscription{Topic: topicTest, Handler: func(_ context.Context, e Event) error {
			calls = append(calls, "first:"+e.EntityID)
			return errors.New("boom")
		}},
		Subscription{Topic: topicTest, Handler: func(_ context.Context, e Event) error {
			calls = append(calls, "second:"+e.EntityID)
			return nil
		}},
		Subscription{Topic: "other", Handler: func(context.Context, Event) error {
			calls = append(calls, "other")
			return nil
		}},
	)

	bus.Publish(context.Background(), Event{Topic: topicTest, EntityID: "42"})

	assert.Equal(t, []string{"first:42", "second:42"}, calls)
	require.Len(t, failures, 1)
	assert.EqualError(t, failures[0], "boom")
	assert.True(t, bus.HasSubscribers(topicTest))
	assert.False(t, bus.HasSubscribers("missing"))
}

func TestNilBusIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Topic: topicTest})
	})
}
