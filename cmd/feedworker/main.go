// cmd/feedworker/main.go is an asynchronous worker that pops activity
// events from the Redis feed queue and persists them to PostgreSQL,
// where the feed endpoint reads them back.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/skovalyov/reelgraph/internal/database"
	"github.com/skovalyov/reelgraph/internal/feed"
)

// FeedWorker encapsulates the Redis + DB logic for draining the feed
// queue in batches.
type FeedWorker struct {
	redisClient *redis.Client
	store       *database.FeedStore
	queue       string
	batchSize   int
	flushDelay  time.Duration

	batchMu sync.Mutex
	batch   []feed.Event
	ctx     context.Context
}

func NewFeedWorker(ctx context.Context, client *redis.Client, store *database.FeedStore) *FeedWorker {
	batchSize := getEnvInt("FEED_BATCH_SIZE", 20)
	flushMs := getEnvInt("FEED_FLUSH_MS", 500)

	return &FeedWorker{
		redisClient: client,
		store:       store,
		queue:       getEnv("FEED_QUEUE_NAME", feed.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]feed.Event, 0, batchSize),
		ctx:         ctx,
	}
}

// Run reads from the Redis queue, accumulates events in a batch, and
// flushes them to the DB. Blocks until the context is cancelled.
func (w *FeedWorker) Run() {
	ticker := time.NewTicker(w.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.flushBatchToDB()
			return

		case <-ticker.C:
			w.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := w.redisClient.BLPop(w.ctx, 3*time.Second, w.queue).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if w.ctx.Err() != nil {
					continue
				}
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// no message popped
				continue
			}

			var event feed.Event
			if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
				log.Printf("invalid feed event: %v\n", err)
				continue
			}
			w.appendToBatch(event)
		}
	}
}

// appendToBatch adds an event to the in-memory batch and flushes if the
// threshold is reached.
func (w *FeedWorker) appendToBatch(event feed.Event) {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()

	w.batch = append(w.batch, event)
	if len(w.batch) >= w.batchSize {
		w.flushBatchLocked()
	}
}

func (w *FeedWorker) flushBatchToDB() {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	w.flushBatchLocked()
}

func (w *FeedWorker) flushBatchLocked() {
	if len(w.batch) == 0 {
		return
	}
	batchCopy := make([]feed.Event, len(w.batch))
	copy(batchCopy, w.batch)
	w.batch = w.batch[:0]

	if err := w.store.InsertEvents(context.Background(), batchCopy); err != nil {
		log.Printf("[ERROR] flush feed batch: %v\n", err)
	} else {
		log.Printf("Flushed %d feed events to DB.\n", len(batchCopy))
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	rdb, err := feed.ConnectRedis()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	worker := NewFeedWorker(ctx, rdb, database.NewFeedStore(pool))

	log.Println("reelgraph-feedworker started.")
	worker.Run()
	log.Println("reelgraph-feedworker shutting down.")
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
