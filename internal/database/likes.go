// internal/database/likes.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skovalyov/reelgraph/internal/models"
)

// LikeStore persists the like relation.
type LikeStore struct {
	pool *pgxpool.Pool
}

func NewLikeStore(pool *pgxpool.Pool) *LikeStore {
	return &LikeStore{pool: pool}
}

// AddLike records that userID likes filmID. Liking twice is a no-op.
func (s *LikeStore) AddLike(ctx context.Context, userID, filmID int64) error {
	q := `INSERT INTO film_likes (user_id, film_id) VALUES ($1, $2)
	      ON CONFLICT (user_id, film_id) DO NOTHING`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, userID, filmID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (s *LikeStore) RemoveLike(ctx context.Context, userID, filmID int64) error {
	q := `DELETE FROM film_likes WHERE user_id=$1 AND film_id=$2`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, userID, filmID)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return models.ErrLikeNotFound
		}
		return nil
	})
}

// AllLikes returns every like edge in the system. The recommender scans
// this in full on each call.
func (s *LikeStore) AllLikes(ctx context.Context) ([]models.LikeEdge, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id, film_id FROM film_likes`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan likes: %w", err)
	}
	defer rows.Close()

	var edges []models.LikeEdge
	for rows.Next() {
		var e models.LikeEdge
		if err := rows.Scan(&e.UserID, &e.FilmID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
