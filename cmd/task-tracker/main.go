package main

import (
	"log"
	"task-tracker/api/server"
	"task-tracker/config"
	"task-tracker/logger"
	"task-tracker/tasks/events"
	"task-tracker/tasks/store"
	"task-tracker/tasks/tracker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg := logger.New(cfg.LogLevel, nil)

	lg.Info("Starting task tracker", map[string]any{
		"version":        cfg.Version,
		"port":           cfg.ServerPort,
		"log_level":      cfg.LogLevel,
		"events_enabled": cfg.EventsEnabled,
	})

	publisher, err := createPublisher(cfg, lg)
	if err != nil {
		log.Fatalf("event publisher: %v", err)
	}
	defer publisher.Close()

	taskStore := store.NewMemoryTaskStore()
	tr := tracker.New(taskStore, publisher, lg)

	srv := server.New(tr, publisher, cfg, lg)
	if err := srv.Start(); err != nil {
		lg.Error("server stopped with error", map[string]any{
			"error": err.Error(),
		})
	}
}

// createPublisher connects to Redis when events are enabled
func createPublisher(cfg *config.Config, lg *logger.Logger) (events.Publisher, error) {
	if !cfg.EventsEnabled {
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewRedisPublisher(cfg.RedisURL, cfg.EventsList)
	if err != nil {
		return nil, err
	}

	lg.Info("Publishing task events to Redis", map[string]any{
		"list": cfg.EventsList,
	})
	return publisher, nil
}
