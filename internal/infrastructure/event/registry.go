package event

import (
	"sync"

	"github.com/fabworks/backend/internal/domain/shared"
)

// HandlerRegistry keeps track of which handlers listen to which event types
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register adds a handler for the given event types
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// Unregister removes a handler from all event types
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, list := range r.handlers {
		filtered := list[:0]
		for _, h := range list {
			if h != handler {
				filtered = append(filtered, h)
			}
		}
		r.handlers[t] = filtered
	}
}

// GetHandlers returns the handlers registered for an event type
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.handlers[eventType]
	out := make([]shared.EventHandler, len(list))
	copy(out, list)
	return out
}
