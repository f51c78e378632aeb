// Package event is a small synchronous dispatcher. Services fire named
// events; listeners registered at boot turn them into metrics and logs.
package event

import (
	"context"
	"sync"
)

// Handler receives the request context and the event payload.
type Handler func(ctx context.Context, payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers handler for name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], handler)
}

// Fire calls every listener for name in registration order on the caller's
// goroutine. A panicking listener is not recovered.
func Fire(ctx context.Context, name string, payload interface{}) {
	mu.RLock()
	hs := append([]Handler(nil), handlers[name]...)
	mu.RUnlock()

	for _, h := range hs {
		h(ctx, payload)
	}
}

// HasListeners reports whether anything listens for name.
func HasListeners(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[name]) > 0
}

// Flush removes all listeners. Tests use it between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
