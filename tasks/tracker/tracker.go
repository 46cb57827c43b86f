package tracker

import (
	"context"
	"sync"
	"task-tracker/errors"
	"task-tracker/logger"
	"task-tracker/tasks"
	"task-tracker/tasks/events"
	"task-tracker/tasks/store"
)

// Tracker defines the task operations exposed to the transport layer.
type Tracker interface {
	// CreateTask validates and stores a new pending task.
	CreateTask(ctx context.Context, description, dueDate string) (tasks.Task, error)

	// CompleteTask marks a task as completed. Completing twice is not an error.
	CompleteTask(ctx context.Context, id int) (tasks.Task, error)

	// ListTasks returns tasks in creation order, filtered by the raw filter value.
	// Unrecognized filters list every task.
	ListTasks(ctx context.Context, filter string) []tasks.Task

	// DeleteTask removes a task for good.
	DeleteTask(ctx context.Context, id int) error

	// Count returns the number of tracked tasks.
	Count() int
}

// tracker runs every operation against the store, then logs it and announces
// it to the event publisher. The store is the source of truth: a failed
// publish is logged and the operation still succeeds.
// Mutations hold mu until their event is published, so events go out in the
// order the store applied them.
type tracker struct {
	mu        sync.Mutex
	store     store.TaskStore
	publisher events.Publisher
	logger    *logger.Logger
}

var _ Tracker = (*tracker)(nil)

// New constructs a Tracker. A nil publisher disables events.
func New(store store.TaskStore, publisher events.Publisher, lg *logger.Logger) Tracker {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &tracker{
		store:     store,
		publisher: publisher,
		logger:    lg,
	}
}

func (t *tracker) CreateTask(ctx context.Context, description, dueDate string) (tasks.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.store.AddTask(description, dueDate)
	if err != nil {
		t.logger.Debug("task rejected", map[string]any{
			"error": err.Error(),
		})
		return tasks.Task{}, asTaskError(err)
	}

	t.logger.Task(task.ID, "task created", map[string]any{
		"due_date": task.DueDate,
	})
	t.publish(ctx, events.NewEvent(events.TaskCreated, task.ID, &task))

	return task, nil
}

func (t *tracker) CompleteTask(ctx context.Context, id int) (tasks.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.store.MarkAsComplete(id)
	if err != nil {
		return tasks.Task{}, asTaskError(err)
	}

	t.logger.Task(task.ID, "task completed")
	t.publish(ctx, events.NewEvent(events.TaskCompleted, task.ID, &task))

	return task, nil
}

func (t *tracker) ListTasks(ctx context.Context, raw string) []tasks.Task {
	filter, ok := tasks.ParseFilter(raw)
	if !ok {
		t.logger.Warn("unrecognized task filter, listing all tasks", map[string]any{
			"filter": raw,
		})
	}

	return t.store.ListTasks(filter)
}

func (t *tracker) DeleteTask(ctx context.Context, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteTask(id); err != nil {
		return asTaskError(err)
	}

	t.logger.Task(id, "task deleted")
	t.publish(ctx, events.NewEvent(events.TaskDeleted, id, nil))

	return nil
}

func (t *tracker) Count() int {
	return t.store.Len()
}

func (t *tracker) publish(ctx context.Context, event events.Event) {
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Error("failed to publish task event", map[string]any{
			"task_id":    event.TaskID,
			"event_type": string(event.Type),
			"error":      err.Error(),
		})
	}
}

// asTaskError keeps structured errors as they are and wraps anything else.
func asTaskError(err error) error {
	if taskErr, ok := errors.IsTaskError(err); ok {
		return taskErr
	}
	return errors.NewInternalError(err.Error())
}
