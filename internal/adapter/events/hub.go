package events

import (
	"context"
	"fmt"
	"sync"

	"socialpulse/internal/domain/pulse"
)

// Hub fans run events out to in-process listeners. It is used when no event
// bus is configured.
type Hub struct {
	mu        sync.RWMutex
	listeners map[int]func([]byte)
	nextID    int
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		listeners: make(map[int]func([]byte)),
	}
}

// PublishRun delivers the encoded run to every listener
func (h *Hub) PublishRun(ctx context.Context, run pulse.Run) error {
	data, err := Encode(run)
	if err != nil {
		return fmt.Errorf("error encoding run event: %w", err)
	}

	h.mu.RLock()
	listeners := make([]func([]byte), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.RUnlock()

	for _, fn := range listeners {
		fn(data)
	}
	return nil
}

// Subscribe registers fn until the returned function is called
func (h *Hub) Subscribe(fn func(data []byte)) (func(), error) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}, nil
}
