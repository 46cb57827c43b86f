package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes JSON-encoded events onto a Redis list.
// Producers LPUSH and consumers BRPOP, so events are read in FIFO order.
type RedisPublisher struct {
	client   *redis.Client
	listName string
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(url, listName string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{
		client:   client,
		listName: listName,
	}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.LPush(ctx, p.listName, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Depth returns the number of events not yet consumed
func (p *RedisPublisher) Depth(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.listName).Result()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
