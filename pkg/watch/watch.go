// Package watch gives the state stores their observable surface: the
// presentation layer subscribes and re-reads store state on every ping.
// Correctness of the stores never depends on a watcher being present.
package watch

import "sync"

// Broadcaster tracks subscribers and pings them after each mutation.
// The zero value is ready to use.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// Subscribe registers a change handler and returns its cancel function.
func (b *Broadcaster) Subscribe(handler func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = map[int]func(){}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Notify pings every current subscriber on the caller's goroutine.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	handlers := make([]func(), 0, len(b.subs))
	for _, handler := range b.subs {
		handlers = append(handlers, handler)
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		handler()
	}
}
