package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var order []string
	d.Subscribe(EventTicketsChanged, func(context.Context, Event) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventTicketsChanged, func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	})
	d.Subscribe(EventTagsChanged, func(context.Context, Event) error {
		order = append(order, "other")
		return nil
	})

	if err := d.Publish(context.Background(), New(EventTicketsChanged, nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected delivery order: %v", order)
	}
}

func TestNewStampsEvent(t *testing.T) {
	ev := New(EventConnectionStatus, ConnectionStatusPayload{State: ConnectionConnected})
	if ev.ID == "" || ev.Timestamp.IsZero() {
		t.Fatalf("event should carry id and timestamp: %+v", ev)
	}
	if ev.Type != EventConnectionStatus {
		t.Fatalf("unexpected type %s", ev.Type)
	}
}
