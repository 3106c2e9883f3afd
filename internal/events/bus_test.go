package events

import (
	"errors"
	"testing"
)

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	bus := NewBus()
	var received []Topic
	bus.Subscribe(TopicEffectAdded, func(evt Event) error {
		received = append(received, evt.Topic)
		return nil
	})
	bus.Subscribe(TopicEffectDeleted, func(evt Event) error {
		t.Fatal("unrelated topic handler invoked")
		return nil
	})

	if err := bus.Publish(Event{Topic: TopicEffectAdded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(received) != 1 || received[0] != TopicEffectAdded {
		t.Fatalf("received = %v, want one effect.add", received)
	}
}

func TestPublishDeliversToCatchAll(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.SubscribeAll(func(evt Event) error {
		count++
		return nil
	})

	bus.Publish(Event{Topic: TopicEffectAdded})
	bus.Publish(Event{Topic: TopicFramesChanged})
	if count != 2 {
		t.Fatalf("catch-all invocations = %d, want 2", count)
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	bus := NewBus()
	sinkErr := errors.New("sink unavailable")
	delivered := false
	bus.Subscribe(TopicEffectAdded, func(Event) error { return sinkErr })
	bus.Subscribe(TopicEffectAdded, func(Event) error {
		delivered = true
		return nil
	})

	err := bus.Publish(Event{Topic: TopicEffectAdded})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("err = %v, want %v", err, sinkErr)
	}
	if !delivered {
		t.Fatal("later handler skipped after earlier failure")
	}
}

func TestSubscribeIgnoresNilHandler(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(TopicEffectAdded, nil)
	bus.SubscribeAll(nil)
	if err := bus.Publish(Event{Topic: TopicEffectAdded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
