package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher publishes JSON messages to a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wraps an existing redis client as a Publisher.
func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

// NewRedisClient creates and pings a new redis client.
func NewRedisClient(addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Publish serializes the message as JSON and publishes it on the channel.
func (r *redisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	return r.client.Publish(ctx, channel, payload).Err()
}

// Close closes the underlying redis connection.
func (r *redisPublisher) Close() error {
	return r.client.Close()
}
