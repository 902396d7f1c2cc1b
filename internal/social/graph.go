// internal/social/graph.go
//
// The mutual-friendship protocol. A friendship starts as a one-sided
// pending request and becomes confirmed once the other side requests
// back; cancellation by either party removes the pair entirely.
package social

import (
	"context"
	"fmt"
	"sort"

	"github.com/skovalyov/reelgraph/internal/models"
)

// UserLookup resolves user ids. Implementations return
// models.ErrUserNotFound for unknown ids.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// FriendshipStore persists pair states. Promote and Delete touch the pair
// as a single atomic unit; SetPending must converge two concurrent
// opposite-direction requests to confirmed rather than leaving two
// pending directions behind.
type FriendshipStore interface {
	Pair(ctx context.Context, a, b int64) (models.PairState, error)
	SetPending(ctx context.Context, requesterID, targetID int64) error
	Promote(ctx context.Context, a, b int64) error
	Delete(ctx context.Context, a, b int64) error
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

// Graph exposes the friendship protocol over a UserLookup and a
// FriendshipStore. It holds no state of its own.
type Graph struct {
	users UserLookup
	store FriendshipStore
}

func NewGraph(users UserLookup, store FriendshipStore) *Graph {
	return &Graph{users: users, store: store}
}

// RequestFriendship records userID's request to befriend friendID and
// returns the friend. Repeating a request, or requesting an already
// confirmed friend, succeeds without touching the store. A request that
// reciprocates a pending one from the other side promotes the pair to
// confirmed.
func (g *Graph) RequestFriendship(ctx context.Context, userID, friendID int64) (*models.User, error) {
	if _, err := g.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	friend, err := g.users.GetUser(ctx, friendID)
	if err != nil {
		return nil, err
	}
	if userID == friendID {
		return nil, models.ErrSelfFriendship
	}

	state, err := g.store.Pair(ctx, userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pair state: %w", err)
	}

	switch state.Status {
	case models.FriendshipNone:
		if err := g.store.SetPending(ctx, userID, friendID); err != nil {
			return nil, fmt.Errorf("failed to set pending: %w", err)
		}
	case models.FriendshipPending:
		if state.RequesterID == userID {
			// repeated request from the same side, nothing to do
			break
		}
		if err := g.store.Promote(ctx, userID, friendID); err != nil {
			return nil, fmt.Errorf("failed to confirm friendship: %w", err)
		}
	case models.FriendshipConfirmed:
		// already friends
	}

	return friend, nil
}

// CancelFriendship removes the relationship between the two users,
// whether pending or confirmed and regardless of who initiated it.
func (g *Graph) CancelFriendship(ctx context.Context, userID, friendID int64) (*models.User, error) {
	if _, err := g.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	friend, err := g.users.GetUser(ctx, friendID)
	if err != nil {
		return nil, err
	}

	state, err := g.store.Pair(ctx, userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pair state: %w", err)
	}
	if state.Status == models.FriendshipNone {
		return nil, models.ErrNoRelationship
	}

	if err := g.store.Delete(ctx, userID, friendID); err != nil {
		return nil, fmt.Errorf("failed to delete friendship: %w", err)
	}
	return friend, nil
}

// ListFriends returns every confirmed friend of userID, ascending by id.
func (g *Graph) ListFriends(ctx context.Context, userID int64) ([]models.User, error) {
	if _, err := g.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := g.store.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return g.resolveUsers(ctx, ids)
}

// FindCommonFriends intersects the confirmed friends of both users. No
// overlap is an empty list, not an error.
func (g *Graph) FindCommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	if _, err := g.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := g.users.GetUser(ctx, otherID); err != nil {
		return nil, err
	}

	userIDs, err := g.store.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	otherIDs, err := g.store.FriendIDs(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}

	otherSet := make(map[int64]struct{}, len(otherIDs))
	for _, id := range otherIDs {
		otherSet[id] = struct{}{}
	}

	var common []int64
	for _, id := range userIDs {
		if _, ok := otherSet[id]; ok {
			common = append(common, id)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	return g.resolveUsers(ctx, common)
}

func (g *Graph) resolveUsers(ctx context.Context, ids []int64) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := g.users.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user %d: %w", id, err)
		}
		users = append(users, *u)
	}
	return users, nil
}
