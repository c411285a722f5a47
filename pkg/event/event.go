// Package event is a small in-process event dispatcher.
//
// Checkout fires "order.placed" after the order commits; listeners fan out
// to the websocket feed, the confirmation job, and metrics without the
// checkout service knowing about any of them.
package event

import (
	"sync"

	"github.com/glowmart/glowmart/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	// asyncPool bounds FireAsync fan-out so a burst of events cannot spawn
	// unbounded goroutines.
	asyncPool = workerpool.New(16)
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners on the shared pool and
// returns immediately. When the pool is saturated the handler runs inline
// rather than being dropped.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h := h
		if err := asyncPool.Submit(func() { h(payload) }); err != nil {
			h(payload)
		}
	}
}

// Flush removes all listeners. Tests use it to isolate registrations.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
