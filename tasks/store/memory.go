package store

import (
	"fmt"
	"sync"
	"task-tracker/errors"
	"task-tracker/tasks"
)

// Compile-time check to ensure MemoryTaskStore implements TaskStore interface
var _ TaskStore = (*MemoryTaskStore)(nil)

// MemoryTaskStore keeps tasks in memory, in insertion order.
// Ids come from a per-store counter that starts at 1 and never goes back,
// so an id is not reused after its task is deleted.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  []tasks.Task
	nextID int
}

// NewMemoryTaskStore creates and initializes a new MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks:  make([]tasks.Task, 0),
		nextID: 1,
	}
}

// AddTask validates the input, assigns the next id and appends the task.
// The counter only advances when the task is actually stored.
func (s *MemoryTaskStore) AddTask(description, dueDate string) (tasks.Task, error) {
	var missing []string
	if description == "" {
		missing = append(missing, "description")
	}
	if dueDate == "" {
		missing = append(missing, "dueDate")
	}
	if len(missing) > 0 {
		return tasks.Task{}, errors.NewInvalidInputError("Description and due date are required", map[string]any{
			"fields": missing,
		})
	}

	normalized, err := tasks.NormalizeDueDate(dueDate)
	if err != nil {
		return tasks.Task{}, errors.NewInvalidInputError(fmt.Sprintf("invalid due date %q", dueDate), map[string]any{
			"fields": []string{"dueDate"},
			"error":  err.Error(),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := tasks.Task{
		ID:          s.nextID,
		Description: description,
		DueDate:     normalized,
		Completed:   false,
	}
	s.nextID++
	s.tasks = append(s.tasks, task)

	return task, nil
}

// MarkAsComplete flags the task as completed and returns the updated copy.
// Completing an already completed task is a no-op.
func (s *MemoryTaskStore) MarkAsComplete(id int) (tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return tasks.Task{}, notFound(id)
	}

	s.tasks[i].Completed = true
	return s.tasks[i], nil
}

// ListTasks returns copies of the tasks matching filter, in insertion order.
// The result is never nil.
func (s *MemoryTaskStore) ListTasks(filter tasks.Filter) []tasks.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tasks.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}

// DeleteTask removes the task with the given id.
func (s *MemoryTaskStore) DeleteTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// Len returns the number of stored tasks.
func (s *MemoryTaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}

// indexOf must be called with s.mu held.
func (s *MemoryTaskStore) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id int) *errors.TaskError {
	return errors.NewNotFoundError(fmt.Sprintf("Task with id %d not found", id), map[string]any{
		"task_id": id,
	})
}
