// internal/database/film.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skovalyov/reelgraph/internal/models"
)

// FilmStore persists films to the depth the like relation and the
// recommendation surface need.
type FilmStore struct {
	pool *pgxpool.Pool
}

func NewFilmStore(pool *pgxpool.Pool) *FilmStore {
	return &FilmStore{pool: pool}
}

func (s *FilmStore) CreateFilm(ctx context.Context, film *models.Film) error {
	q := `INSERT INTO films (name, release_date) VALUES ($1, $2) RETURNING id`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, film.Name, film.ReleaseDate).Scan(&film.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert film: %w", err)
	}
	return nil
}

func (s *FilmStore) GetFilm(ctx context.Context, id int64) (*models.Film, error) {
	var f models.Film
	q := `SELECT id, name, release_date FROM films WHERE id=$1`
	err := s.pool.QueryRow(ctx, q, id).Scan(&f.ID, &f.Name, &f.ReleaseDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrFilmNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get film %d: %w", id, err)
	}
	return &f, nil
}

func (s *FilmStore) ListFilms(ctx context.Context) ([]models.Film, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, release_date FROM films ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	defer rows.Close()

	films := []models.Film{}
	for rows.Next() {
		var f models.Film
		if err := rows.Scan(&f.ID, &f.Name, &f.ReleaseDate); err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}
