// Package events distributes progress change notifications to live
// subscribers. The tracker emits an event after every refresh; API
// clients consume them as a server-sent event stream.
package events

import (
	"sync"
	"time"
)

// Type categorizes hub events.
type Type string

const (
	TypeRefreshed    Type = "progress_refreshed"
	TypeWatchStarted Type = "watch_started"
	TypeWatchStopped Type = "watch_stopped"
)

// Event is one notification with optional payload fields.
type Event struct {
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// New creates an event stamped with the current time.
func New(eventType Type) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      make(map[string]any),
	}
}

// WithData adds one payload field to the event.
func (e Event) WithData(key string, value any) Event {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// Hub fans events out to subscribers and keeps a bounded history.
// Slow subscribers are skipped, never waited on.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	history     []Event
	maxHistory  int
	closed      bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		maxHistory:  256,
	}
}

// Emit records the event and delivers it to every open subscriber.
func (h *Hub) Emit(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.history = append(h.history, event)
	if len(h.history) > h.maxHistory {
		h.history = h.history[1:]
	}

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not keeping up; drop this event for it.
		}
	}
}

// Subscribe registers a new subscriber channel.
func (h *Hub) Subscribe() chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 64)
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// History returns a copy of the retained events, oldest first.
func (h *Hub) History() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Event, len(h.history))
	copy(out, h.history)
	return out
}

// SubscriberCount returns the number of open subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close closes every subscriber channel and rejects further emits.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
