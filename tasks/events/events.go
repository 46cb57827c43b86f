package events

import (
	"context"
	"task-tracker/tasks"
	"time"
)

// EventType names a task lifecycle change
type EventType string

const (
	TaskCreated   EventType = "task.created"
	TaskCompleted EventType = "task.completed"
	TaskDeleted   EventType = "task.deleted"
)

// Event is an outbound notification about a task. Task is nil for deletions.
type Event struct {
	Type      EventType   `json:"type"`
	TaskID    int         `json:"task_id"`
	Task      *tasks.Task `json:"task,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(eventType EventType, taskID int, task *tasks.Task) Event {
	return Event{
		Type:      eventType,
		TaskID:    taskID,
		Task:      task,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers task events to whoever is listening.
// The tracker calls Publish in the order mutations were applied to the store.
type Publisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event Event) error

	// Close releases the underlying connection
	Close() error
}

// NopPublisher discards every event. Used when events are disabled.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
