package tasks

import (
	"strings"
	"time"
)

// DueDateLayout is the canonical rendering of a task due date (UTC, millisecond precision).
const DueDateLayout = "2006-01-02T15:04:05.000Z"

// Task is a single to-do item tracked by the service.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	// Always in DueDateLayout once the task is stored
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
}

// Filter restricts a task listing by completion state.
type Filter string

const (
	FilterAll       Filter = ""
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

func (f Filter) String() string {
	if f == FilterAll {
		return "all"
	}
	return string(f)
}

// Matches reports whether task belongs in a listing under f.
func (f Filter) Matches(task Task) bool {
	switch f {
	case FilterCompleted:
		return task.Completed
	case FilterPending:
		return !task.Completed
	default:
		return true
	}
}

// ParseFilter maps a raw query value onto a Filter. Unknown values fall back
// to FilterAll; ok is false when raw was non-empty but not recognized.
func ParseFilter(raw string) (filter Filter, ok bool) {
	switch Filter(raw) {
	case FilterCompleted, FilterPending:
		return Filter(raw), true
	case FilterAll:
		return FilterAll, true
	default:
		return FilterAll, false
	}
}

// Accepted due date inputs, tried in order. Layouts without a zone are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// NormalizeDueDate parses raw and renders it in DueDateLayout.
func NormalizeDueDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC().Format(DueDateLayout), nil
		}
		lastErr = err
	}
	return "", lastErr
}
