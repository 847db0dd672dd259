// Package notify carries the short human-readable messages the stores
// emit on every mutation. The channel is advisory: nothing in the core
// depends on a notification being observed.
package notify

import (
	"sync"

	"github.com/tastybites/storefront-core/pkg/enums"
)

// Event is one user-facing message.
type Event struct {
	Level enums.NotificationLevel
	Text  string
}

// Notifier is the publishing surface handed to the stores.
type Notifier interface {
	Publish(event Event)
}

// Func adapts a plain function to Notifier.
type Func func(Event)

func (f Func) Publish(event Event) { f(event) }

// Nop discards every event.
var Nop Notifier = Func(func(Event) {})

// Bus fans events out to registered subscribers. Delivery runs on the
// publisher's goroutine; subscribers must not block.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: map[int]func(Event){}}
}

// Subscribe registers a handler and returns its cancel function.
func (b *Bus) Subscribe(handler func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, handler := range b.subs {
		handlers = append(handlers, handler)
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Success publishes a success-level event.
func Success(n Notifier, text string) {
	if n == nil {
		return
	}
	n.Publish(Event{Level: enums.LevelSuccess, Text: text})
}

// Error publishes an error-level event.
func Error(n Notifier, text string) {
	if n == nil {
		return
	}
	n.Publish(Event{Level: enums.LevelError, Text: text})
}
