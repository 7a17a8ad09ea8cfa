package event

import "sync"

type Handler func(payload interface{})

// Bus is a minimal in-process pub/sub. Handlers run on their own goroutine,
// so a slow or failing subscriber never blocks the publisher.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, h := range b.handlers[event] {
		go h(payload)
	}
}
