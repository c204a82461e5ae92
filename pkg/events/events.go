// Package events provides the progress event bus between the generation
// stage and its observers (CLI output, preview server websocket feed).
package events

import (
	"fmt"
	"sync"
	"time"
)

// Event is one progress notification from a pipeline run.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Event types published by the pipeline.
const (
	EventTypeRunStarted    = "run_started"
	EventTypeFileStarted   = "file_started"
	EventTypeFileCompleted = "file_completed"
	EventTypeRunCompleted  = "run_completed"
)

// EventBus fans events out to named subscribers. Slow subscribers are
// skipped rather than blocking the publisher.
type EventBus struct {
	subscribers map[string]chan Event
	mutex       sync.RWMutex
	nextID      int64
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe registers a named subscriber and returns its channel.
func (eb *EventBus) Subscribe(name string) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	ch := make(chan Event, 100)
	eb.subscribers[name] = ch
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (eb *EventBus) Unsubscribe(name string) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if ch, exists := eb.subscribers[name]; exists {
		delete(eb.subscribers, name)
		close(ch)
	}
}

// Publish broadcasts an event to all subscribers. Publishing on a nil bus
// is a no-op so the generator can run without observers.
func (eb *EventBus) Publish(eventType, runID string, data any) {
	if eb == nil {
		return
	}

	eb.mutex.Lock()
	eb.nextID++
	event := Event{
		ID:        fmt.Sprintf("evt_%d_%d", time.Now().UnixNano(), eb.nextID),
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now(),
		Data:      data,
	}
	subscribers := make([]chan Event, 0, len(eb.subscribers))
	for _, ch := range eb.subscribers {
		subscribers = append(subscribers, ch)
	}
	eb.mutex.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is backed up; drop rather than block the run.
		}
	}
}
