package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"task-tracker/errors"
	"task-tracker/logger"
	"task-tracker/tasks"
	"task-tracker/tasks/tracker"
	"time"
)

const maxBodySize = 1024 * 1024 // 1 MB

// createTaskRequest is the body of POST /tasks. Missing fields decode as "".
type createTaskRequest struct {
	Description string       `json:"description"`
	DueDate     dueDateField `json:"dueDate"`
}

// dueDateField accepts a date string or a number of milliseconds since the
// epoch. Null and 0 decode as "" and are reported as missing.
type dueDateField string

func (d *dueDateField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = dueDateField(s)
		return nil
	}

	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("dueDate must be a string or milliseconds since the epoch")
	}
	if ms == 0 {
		*d = ""
		return nil
	}
	*d = dueDateField(time.UnixMilli(ms).UTC().Format(tasks.DueDateLayout))
	return nil
}

// NewCreateTaskHandler handles POST /tasks.
func NewCreateTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				respondWithError(w, r, errors.NewInvalidInputError("request body too large", map[string]any{
					"max_size_bytes": maxBodySize,
				}), lg)
				return
			}

			respondWithError(w, r, errors.NewInvalidInputError("invalid JSON payload", map[string]any{
				"error": err.Error(),
			}), lg)
			return
		}

		task, err := tr.CreateTask(r.Context(), req.Description, string(req.DueDate))
		if err != nil {
			respondWithServiceError(w, r, err, lg)
			return
		}

		respondWithJSON(w, r, http.StatusCreated, task, lg)
	}
}

// NewCompleteTaskHandler handles PATCH /tasks/{id}/complete.
func NewCompleteTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := taskIDFromPath(r)
		if err != nil {
			respondWithError(w, r, err, lg)
			return
		}

		task, serviceErr := tr.CompleteTask(r.Context(), id)
		if serviceErr != nil {
			respondWithServiceError(w, r, serviceErr, lg)
			return
		}

		respondWithJSON(w, r, http.StatusOK, task, lg)
	}
}

// NewListTasksHandler handles GET /tasks?filter=completed|pending.
func NewListTasksHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed := tr.ListTasks(r.Context(), r.URL.Query().Get("filter"))
		respondWithJSON(w, r, http.StatusOK, listed, lg)
	}
}

// NewDeleteTaskHandler handles DELETE /tasks/{id}.
func NewDeleteTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := taskIDFromPath(r)
		if err != nil {
			respondWithError(w, r, err, lg)
			return
		}

		if serviceErr := tr.DeleteTask(r.Context(), id); serviceErr != nil {
			respondWithServiceError(w, r, serviceErr, lg)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// taskIDFromPath reads the {id} wildcard. An id that is not an integer can
// never match a task, so it is reported as not found.
func taskIDFromPath(r *http.Request) (int, *errors.TaskError) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewNotFoundError(fmt.Sprintf("Task with id %s not found", raw), map[string]any{
			"task_id": raw,
		})
	}
	return id, nil
}
