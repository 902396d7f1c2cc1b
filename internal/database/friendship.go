// internal/database/friendship.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skovalyov/reelgraph/internal/models"
)

// FriendshipStore keeps one row per unordered user pair in the
// friendships table. The single-row model makes the "never two opposing
// pending directions" invariant structural rather than checked.
type FriendshipStore struct {
	pool *pgxpool.Pool
}

func NewFriendshipStore(pool *pgxpool.Pool) *FriendshipStore {
	return &FriendshipStore{pool: pool}
}

func normalizePair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Pair returns the stored state for {a,b}; a missing row is
// FriendshipNone.
func (s *FriendshipStore) Pair(ctx context.Context, a, b int64) (models.PairState, error) {
	lo, hi := normalizePair(a, b)
	q := `SELECT status, requester_id FROM friendships WHERE user_lo=$1 AND user_hi=$2`

	var (
		status    string
		requester int64
	)
	err := s.pool.QueryRow(ctx, q, lo, hi).Scan(&status, &requester)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PairState{Status: models.FriendshipNone}, nil
	}
	if err != nil {
		return models.PairState{}, fmt.Errorf("failed to read friendship state: %w", err)
	}
	return models.PairState{Status: models.FriendshipStatus(status), RequesterID: requester}, nil
}

// SetPending records a pending request from requesterID to targetID. If
// a row appeared meanwhile from the opposite direction, the conflict arm
// finishes the handshake and confirms the pair, so two concurrent
// opposite requests converge instead of splitting.
func (s *FriendshipStore) SetPending(ctx context.Context, requesterID, targetID int64) error {
	lo, hi := normalizePair(requesterID, targetID)
	q := `
		INSERT INTO friendships (user_lo, user_hi, status, requester_id)
		VALUES ($1, $2, 'pending', $3)
		ON CONFLICT (user_lo, user_hi) DO UPDATE
		SET status='confirmed', updated_at=NOW()
		WHERE friendships.status='pending' AND friendships.requester_id <> EXCLUDED.requester_id
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, lo, hi, requesterID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert friend request: %w", err)
	}
	return nil
}

// Promote confirms a pending pair. Promoting a pair that is already
// confirmed is a no-op; promoting a pair that no longer exists reports
// models.ErrConflict.
func (s *FriendshipStore) Promote(ctx context.Context, a, b int64) error {
	lo, hi := normalizePair(a, b)
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `UPDATE friendships SET status='confirmed', updated_at=NOW()
		      WHERE user_lo=$1 AND user_hi=$2 AND status='pending'`
		ct, err := tx.Exec(ctx, q, lo, hi)
		if err != nil {
			return fmt.Errorf("failed to confirm friendship: %w", err)
		}
		if ct.RowsAffected() > 0 {
			return nil
		}

		var status string
		err = tx.QueryRow(ctx, `SELECT status FROM friendships WHERE user_lo=$1 AND user_hi=$2`, lo, hi).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("failed to re-read friendship state: %w", err)
		}
		if models.FriendshipStatus(status) != models.FriendshipConfirmed {
			return models.ErrConflict
		}
		// a concurrent request confirmed it first
		return nil
	})
}

// Delete removes the pair row entirely, whatever its status.
func (s *FriendshipStore) Delete(ctx context.Context, a, b int64) error {
	lo, hi := normalizePair(a, b)
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM friendships WHERE user_lo=$1 AND user_hi=$2`, lo, hi)
		if err != nil {
			return fmt.Errorf("failed to delete friendship: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return models.ErrNoRelationship
		}
		return nil
	})
}

// FriendIDs returns the confirmed friends of userID, ascending.
func (s *FriendshipStore) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	q := `
		SELECT CASE WHEN user_lo=$1 THEN user_hi ELSE user_lo END AS friend_id
		FROM friendships
		WHERE (user_lo=$1 OR user_hi=$1) AND status='confirmed'
		ORDER BY friend_id
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
