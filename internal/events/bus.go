package events

import (
	"sync"
	"time"
)

// Handler receives published events. Handlers must not block; slow
// consumers should buffer on their side.
type Handler func(event *Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a simple in-process publish/subscribe bus.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType][]subscription
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]subscription)}
}

// Subscribe registers a handler for one event type and returns a function
// that removes the subscription.
func (b *Bus) Subscribe(eventType EventType, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() { b.remove(eventType, id) }
}

// SubscribeAll registers a handler for every known event type and returns a
// function that removes all of the subscriptions.
func (b *Bus) SubscribeAll(handler Handler) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(AllEventTypes))
	for _, eventType := range AllEventTypes {
		unsubs = append(unsubs, b.Subscribe(eventType, handler))
	}
	return func() {
		for _, fn := range unsubs {
			fn()
		}
	}
}

func (b *Bus) remove(eventType EventType, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit publishes an event synchronously to all handlers of its type.
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Module:    module,
		Data:      data,
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[eventType]))
	copy(subs, b.handlers[eventType])
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}
