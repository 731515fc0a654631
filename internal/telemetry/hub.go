package telemetry

import (
	"sync"

	"confshare/internal/core/domain"
)

// Hub fans configuration change events out to websocket watchers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string][]chan domain.ConfigurationEvent // configuration ID -> watcher channels
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string][]chan domain.ConfigurationEvent),
	}
}

// Subscribe adds a watcher for one configuration id.
func (h *Hub) Subscribe(id string) chan domain.ConfigurationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.ConfigurationEvent, 16) // Buffer so slow clients never block writers
	h.subscribers[id] = append(h.subscribers[id], ch)
	return ch
}

// Unsubscribe removes a watcher channel and closes it.
func (h *Hub) Unsubscribe(id string, ch chan domain.ConfigurationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[id]
	for i, sub := range subs {
		if sub == ch {
			h.subscribers[id] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(h.subscribers[id]) == 0 {
		delete(h.subscribers, id)
	}
}

// Broadcast delivers an event to every watcher of its configuration id.
func (h *Hub) Broadcast(ev domain.ConfigurationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[ev.ID] {
		select {
		case ch <- ev:
		default: // Drop the event if the buffer is full rather than stall the write path
		}
	}
}
