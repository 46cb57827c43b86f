package api

import (
	"context"
	"net/http"
	"task-tracker/config"
	"task-tracker/logger"
	"task-tracker/tasks/events"
	"task-tracker/tasks/tracker"
	"time"
)

var startTime = time.Now()

// HealthResponse provides detailed health information
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Version   string       `json:"version,omitempty"`
	TaskCount int          `json:"task_count"`
	Events    EventsHealth `json:"events"`
}

type EventsHealth struct {
	Enabled bool `json:"enabled"`
	// Unconsumed events, when the publisher can tell
	Backlog *int64 `json:"backlog,omitempty"`
}

// backlogReporter is implemented by publishers that buffer events, like RedisPublisher.
type backlogReporter interface {
	Depth(ctx context.Context) (int64, error)
}

// NewHealthHandler returns a health check handler
func NewHealthHandler(cfg *config.Config, tr tracker.Tracker, publisher events.Publisher, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(startTime).String(),
			Version:   cfg.Version,
			TaskCount: tr.Count(),
			Events:    EventsHealth{Enabled: cfg.EventsEnabled},
		}

		if reporter, ok := publisher.(backlogReporter); ok {
			depth, err := reporter.Depth(r.Context())
			if err != nil {
				lg.Warn("failed to read event backlog", map[string]any{
					"error": err.Error(),
				})
				response.Status = "degraded"
			} else {
				response.Events.Backlog = &depth
			}
		}

		respondWithJSON(w, r, http.StatusOK, response, lg)
	}
}
