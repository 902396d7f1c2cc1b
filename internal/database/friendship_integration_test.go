// internal/database/friendship_integration_test.go
package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/skovalyov/reelgraph/internal/models"
)

// testPool connects to TEST_DATABASE_URL, migrates, and wipes the
// tables. Tests skip when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE film_likes, friendships, films, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func seedUsers(t *testing.T, users *UserStore, logins ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(logins))
	for _, login := range logins {
		u := &models.User{
			Email:    login + "@example.com",
			Login:    login,
			Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, users.CreateUser(context.Background(), u))
		ids = append(ids, u.ID)
	}
	return ids
}

func TestFriendshipStoreLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := NewUserStore(pool)
	store := NewFriendshipStore(pool)
	ids := seedUsers(t, users, "alice", "bob")
	a, b := ids[0], ids[1]

	state, err := store.Pair(ctx, a, b)
	require.NoError(t, err)
	require.Equal(t, models.FriendshipNone, state.Status)

	require.NoError(t, store.SetPending(ctx, a, b))
	state, err = store.Pair(ctx, b, a) // order independent
	require.NoError(t, err)
	require.Equal(t, models.FriendshipPending, state.Status)
	require.Equal(t, a, state.RequesterID)

	// pending pairs are not friends
	friends, err := store.FriendIDs(ctx, a)
	require.NoError(t, err)
	require.Empty(t, friends)

	require.NoError(t, store.Promote(ctx, a, b))
	state, err = store.Pair(ctx, a, b)
	require.NoError(t, err)
	require.Equal(t, models.FriendshipConfirmed, state.Status)

	friends, err = store.FriendIDs(ctx, a)
	require.NoError(t, err)
	require.Equal(t, []int64{b}, friends)
	friends, err = store.FriendIDs(ctx, b)
	require.NoError(t, err)
	require.Equal(t, []int64{a}, friends)

	require.NoError(t, store.Delete(ctx, a, b))
	state, err = store.Pair(ctx, a, b)
	require.NoError(t, err)
	require.Equal(t, models.FriendshipNone, state.Status)

	require.ErrorIs(t, store.Delete(ctx, a, b), models.ErrNoRelationship)
}

func TestFriendshipStoreSetPendingConverges(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := NewUserStore(pool)
	store := NewFriendshipStore(pool)
	ids := seedUsers(t, users, "alice", "bob")
	a, b := ids[0], ids[1]

	// both sides raced past the state read and call SetPending; the
	// second call must finish the handshake, not leave a second pending
	require.NoError(t, store.SetPending(ctx, a, b))
	require.NoError(t, store.SetPending(ctx, b, a))

	state, err := store.Pair(ctx, a, b)
	require.NoError(t, err)
	require.Equal(t, models.FriendshipConfirmed, state.Status)

	// a repeat from the original requester never promotes
	require.NoError(t, store.Delete(ctx, a, b))
	require.NoError(t, store.SetPending(ctx, a, b))
	require.NoError(t, store.SetPending(ctx, a, b))
	state, err = store.Pair(ctx, a, b)
	require.NoError(t, err)
	require.Equal(t, models.FriendshipPending, state.Status)
}

func TestFriendshipStorePromoteGoneConflicts(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := NewUserStore(pool)
	store := NewFriendshipStore(pool)
	ids := seedUsers(t, users, "alice", "bob")
	a, b := ids[0], ids[1]

	require.ErrorIs(t, store.Promote(ctx, a, b), models.ErrConflict)
}

func TestLikeStoreRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := NewUserStore(pool)
	films := NewFilmStore(pool)
	likes := NewLikeStore(pool)

	ids := seedUsers(t, users, "alice")
	film := &models.Film{Name: "film", ReleaseDate: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, films.CreateFilm(ctx, film))

	require.NoError(t, likes.AddLike(ctx, ids[0], film.ID))
	// duplicate like is a no-op
	require.NoError(t, likes.AddLike(ctx, ids[0], film.ID))

	edges, err := likes.AllLikes(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.LikeEdge{{UserID: ids[0], FilmID: film.ID}}, edges)

	require.NoError(t, likes.RemoveLike(ctx, ids[0], film.ID))
	require.ErrorIs(t, likes.RemoveLike(ctx, ids[0], film.ID), models.ErrLikeNotFound)

	edges, err = likes.AllLikes(ctx)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestUserStoreBlankNameFallsBackToLogin(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := NewUserStore(pool)
	u := &models.User{
		Email:    "alice@example.com",
		Login:    "alice",
		Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, users.CreateUser(ctx, u))

	got, err := users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Name)

	_, err = users.GetUser(ctx, u.ID+1)
	require.ErrorIs(t, err, models.ErrUserNotFound)
}
