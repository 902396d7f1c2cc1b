// internal/database/user.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skovalyov/reelgraph/internal/models"
)

// UserStore persists users in Postgres.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// CreateUser inserts the user and fills in the generated id. A blank
// name falls back to the login.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Name == "" {
		user.Name = user.Login
	}

	q := `INSERT INTO users (email, login, name, birthday)
	      VALUES ($1, $2, $3, $4)
	      RETURNING id`

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	q := `SELECT id, email, login, name, birthday FROM users WHERE id=$1`
	err := s.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	q := `SELECT id, email, login, name, birthday FROM users ORDER BY id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *UserStore) UpdateUser(ctx context.Context, user *models.User) error {
	if user.Name == "" {
		user.Name = user.Login
	}

	q := `UPDATE users SET email=$1, login=$2, name=$3, birthday=$4 WHERE id=$5`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, user.Email, user.Login, user.Name, user.Birthday, user.ID)
		if err != nil {
			return fmt.Errorf("failed to update user %d: %w", user.ID, err)
		}
		if ct.RowsAffected() == 0 {
			return models.ErrUserNotFound
		}
		return nil
	})
}

func (s *UserStore) DeleteUser(ctx context.Context, id int64) error {
	q := `DELETE FROM users WHERE id=$1`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, id)
		if err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		if ct.RowsAffected() == 0 {
			return models.ErrUserNotFound
		}
		return nil
	})
}
