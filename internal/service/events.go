package service

import "sync"

// EventType names a canvas event.
type EventType string

const (
	EventEdgeCommitted      EventType = "edge.committed"
	EventEdgePreview        EventType = "edge.preview"
	EventEdgePreviewCleared EventType = "edge.preview.cleared"
	EventEdgeRemoved        EventType = "edge.removed"
	EventCanvasReplaced     EventType = "canvas.replaced"
	EventNodeMoved          EventType = "node.moved"
	EventNodeUpserted       EventType = "node.upserted"
	EventNodeRemoved        EventType = "node.removed"
	EventUndoApplied        EventType = "undo.applied"
)

// Event is what subscribers receive when the canvas changes.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus fans canvas events out to subscribers. Drag sockets subscribe
// per connection, so registration is safe at any time, not just startup.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber channel.
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe detaches a channel registered with Subscribe. The bus never
// closes subscriber channels; the owner does that after unsubscribing.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers without blocking.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
