package store

import "task-tracker/tasks"

// TaskStore defines the contract for task persistence
type TaskStore interface {
	AddTask(description, dueDate string) (tasks.Task, error)
	MarkAsComplete(id int) (tasks.Task, error)
	ListTasks(filter tasks.Filter) []tasks.Task
	DeleteTask(id int) error
	Len() int
}
