// internal/feed/feed.go
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for activity events.
var DefaultQueueName = "reelgraph_feed"

// Event kinds and operations recorded by the service layer.
const (
	EventFriend = "FRIEND"
	EventLike   = "LIKE"
	EventReview = "REVIEW"

	OpAdd    = "ADD"
	OpRemove = "REMOVE"
	OpUpdate = "UPDATE"
)

// Event holds the minimal info a feed consumer needs to render an
// activity entry.
type Event struct {
	EventID   uuid.UUID `json:"event_id"`
	Timestamp int64     `json:"timestamp"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	Operation string    `json:"operation"`
	EntityID  int64     `json:"entity_id"`
}

// Sink records activity events for an external feed consumer. Callers
// treat it as fire-and-forget: a failed publish is logged, never
// surfaced to the client.
type Sink interface {
	RecordEvent(ctx context.Context, actorID int64, eventType, operation string, entityID int64) error
}

// RedisSink publishes events to a Redis list consumed by the feed
// service.
type RedisSink struct {
	client *redis.Client
	queue  string
}

// ConnectRedis initializes a Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() (*redis.Client, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisSink wraps a connected client. The queue name comes from
// FEED_QUEUE_NAME, falling back to DefaultQueueName.
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{
		client: client,
		queue:  getEnv("FEED_QUEUE_NAME", DefaultQueueName),
	}
}

// RecordEvent serializes the event to JSON and pushes it onto the queue.
func (s *RedisSink) RecordEvent(ctx context.Context, actorID int64, eventType, operation string, entityID int64) error {
	event := Event{
		EventID:   uuid.New(),
		Timestamp: time.Now().UnixMilli(),
		UserID:    actorID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feed event: %w", err)
	}
	if err := s.client.RPush(ctx, s.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", s.queue, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
