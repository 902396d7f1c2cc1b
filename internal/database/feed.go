// internal/database/feed.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skovalyov/reelgraph/internal/feed"
)

// FeedStore persists activity events drained from the feed queue.
type FeedStore struct {
	pool *pgxpool.Pool
}

func NewFeedStore(pool *pgxpool.Pool) *FeedStore {
	return &FeedStore{pool: pool}
}

// InsertEvents writes a batch of events in one transaction. Redelivered
// events are deduplicated on event_id.
func (s *FeedStore) InsertEvents(ctx context.Context, events []feed.Event) error {
	if len(events) == 0 {
		return nil
	}
	q := `INSERT INTO feeds (event_id, create_time, user_id, event_type, operation, entity_id)
	      VALUES ($1, to_timestamp($2::double precision / 1000), $3, $4, $5, $6)
	      ON CONFLICT (event_id) DO NOTHING`

	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, e := range events {
			if _, err := tx.Exec(ctx, q, e.EventID, e.Timestamp, e.UserID, e.EventType, e.Operation, e.EntityID); err != nil {
				return fmt.Errorf("failed to insert feed event %s: %w", e.EventID, err)
			}
		}
		return nil
	})
}

// UserFeed returns the user's activity events in insertion order.
func (s *FeedStore) UserFeed(ctx context.Context, userID int64) ([]feed.Event, error) {
	q := `SELECT event_id, (EXTRACT(EPOCH FROM create_time) * 1000)::bigint, user_id, event_type, operation, entity_id
	      FROM feeds WHERE user_id=$1 ORDER BY id`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	defer rows.Close()

	events := []feed.Event{}
	for rows.Next() {
		var e feed.Event
		if err := rows.Scan(&e.EventID, &e.Timestamp, &e.UserID, &e.EventType, &e.Operation, &e.EntityID); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
