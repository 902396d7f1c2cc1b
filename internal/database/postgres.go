// internal/database/postgres.go
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds a pgx pool from DATABASE_URL, or from the POSTGRES_*
// parts when DATABASE_URL is unset, and pings it.
func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("PG_HOST"),
			os.Getenv("PG_PORT"),
			os.Getenv("PG_DATABASE"),
		)
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return pool, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			email TEXT NOT NULL,
			login TEXT NOT NULL,
			name TEXT NOT NULL,
			birthday DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS films (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name TEXT NOT NULL,
			release_date DATE NOT NULL
		)`,
		// One row per unordered pair, user_lo < user_hi. Two opposing
		// pending rows cannot exist because there is only one row.
		`CREATE TABLE IF NOT EXISTS friendships (
			user_lo BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_hi BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			requester_id BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_lo, user_hi),
			CHECK (user_lo < user_hi)
		)`,
		`CREATE TABLE IF NOT EXISTS film_likes (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			film_id BIGINT NOT NULL REFERENCES films(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, film_id)
		)`,
		// Feed history keeps no FK to users: events outlive the actors.
		`CREATE TABLE IF NOT EXISTS feeds (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			event_id UUID NOT NULL UNIQUE,
			create_time TIMESTAMPTZ NOT NULL,
			user_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			operation TEXT NOT NULL,
			entity_id BIGINT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
