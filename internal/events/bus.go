// Package events carries in-process data-changed notifications so read-side
// views refresh after the workflow or catalog mutates storage.
package events

import (
	"sync"

	"go.uber.org/zap"
)

// Topic identifies a class of data-changed notifications.
type Topic string

const (
	TopicRecordsChanged Topic = "records_changed"
	TopicCatalogChanged Topic = "catalog_changed"
)

// Handler receives a notification for a topic it subscribed to.
type Handler func(topic Topic)

// Bus is a minimal synchronous publish/subscribe hub.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	logger   *zap.Logger
}

// NewBus creates an empty notification bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[Topic][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish invokes all handlers registered for the topic on the calling
// goroutine, preserving the run-to-completion model of the mutating flows.
func (b *Bus) Publish(topic Topic) {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(topic)
	}
	b.logger.Debug("event published", zap.String("topic", string(topic)), zap.Int("handlers", len(handlers)))
}
