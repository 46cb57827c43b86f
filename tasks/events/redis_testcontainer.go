//go:build integration

package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisTestcontainer starts a throwaway Redis and returns a publisher bound
// to a list name unique to the calling test.
func setupRedisTestcontainer(t *testing.T) (*RedisPublisher, func()) {
	t.Helper()
	ctx := context.Background()

	listName := fmt.Sprintf("test_events_%s_%d", t.Name(), time.Now().UnixNano())

	redisContainer, err := redis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithOccurrence(1).WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Failed to start Redis testcontainer: %v", err)
	}

	connStr, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		redisContainer.Terminate(ctx)
		t.Fatalf("Failed to get Redis connection string: %v", err)
	}
	redisURL := connStr + "/1"

	var publisher *RedisPublisher
	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		publisher, err = NewRedisPublisher(redisURL, listName)
		if err == nil {
			break
		}
		t.Logf("Failed to connect to Redis, retrying... (%d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
	}
	if publisher == nil {
		redisContainer.Terminate(ctx)
		t.Fatalf("Failed to create Redis publisher after %d retries: %v", maxRetries, err)
	}

	t.Logf("Redis container started at: %s (list: %s)", redisURL, listName)

	cleanup := func() {
		ctx := context.Background()
		publisher.client.Del(ctx, listName)
		publisher.Close()
		if terminateErr := redisContainer.Terminate(ctx); terminateErr != nil {
			t.Logf("Failed to terminate container: %v", terminateErr)
		}
	}

	return publisher, cleanup
}
