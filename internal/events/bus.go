// Package events provides the per-topic notification bus fed by the command
// engine. The bus is an explicitly constructed service passed by reference to
// its consumers; tests instantiate isolated instances.
package events

import (
	"errors"
	"sync"
	"time"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// Topic is a namespaced event name, e.g. "effect.add" or
// "project.resolution.changed".
type Topic string

// Topics published after successful command dispatch.
const (
	TopicEffectAdded     Topic = "effect.add"
	TopicEffectUpdated   Topic = "effect.update"
	TopicEffectDeleted   Topic = "effect.delete"
	TopicEffectReordered Topic = "effect.reorder"

	TopicSecondaryAdded     Topic = "effect.secondary.add"
	TopicSecondaryUpdated   Topic = "effect.secondary.update"
	TopicSecondaryDeleted   Topic = "effect.secondary.delete"
	TopicSecondaryReordered Topic = "effect.secondary.reorder"

	TopicKeyframeAdded     Topic = "effect.keyframe.add"
	TopicKeyframeUpdated   Topic = "effect.keyframe.update"
	TopicKeyframeDeleted   Topic = "effect.keyframe.delete"
	TopicKeyframeReordered Topic = "effect.keyframe.reorder"

	TopicResolutionChanged  Topic = "project.resolution.changed"
	TopicOrientationChanged Topic = "project.orientation.changed"
	TopicFramesChanged      Topic = "project.frames.changed"
	TopicColorSchemeChanged Topic = "project.colorscheme.changed"
)

// Origin identifies which dispatch path produced an event.
type Origin string

const (
	// OriginExecute marks a first-time command execution.
	OriginExecute Origin = "execute"
	// OriginUndo marks an undo replay.
	OriginUndo Origin = "undo"
	// OriginRedo marks a redo replay.
	OriginRedo Origin = "redo"
)

// Event carries a change notification: the topic, the dispatch origin, and
// the serialized state after the change.
type Event struct {
	Topic       Topic            `json:"topic"`
	Origin      Origin           `json:"origin"`
	CommandType string           `json:"commandType"`
	Timestamp   time.Time        `json:"timestamp"`
	Document    project.Document `json:"document"`
}

// Handler consumes a published event. Handler errors are reported to the
// publisher but never roll back the state change that produced the event.
type Handler func(Event) error

// Bus fans events out to per-topic subscribers synchronously, in
// subscription order.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Topic][]Handler
	catchAll    []Handler
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for a single topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

// SubscribeAll registers a handler for every topic.
func (b *Bus) SubscribeAll(handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catchAll = append(b.catchAll, handler)
}

// Publish delivers the event to all matching handlers. Handler errors are
// collected and joined; publishing is fire-and-forget from the engine's
// perspective, so callers log the returned error rather than acting on it.
func (b *Bus) Publish(evt Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers[evt.Topic])+len(b.catchAll))
	handlers = append(handlers, b.subscribers[evt.Topic]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
