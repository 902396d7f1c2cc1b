// internal/recommend/recommender.go
package recommend

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

// LikeSource exposes the full like relation.
type LikeSource interface {
	AllLikes(ctx context.Context) ([]models.LikeEdge, error)
}

// Recommender suggests films for a user by finding the other user whose
// liked set overlaps the target's the most, then proposing that
// neighbor's likes the target hasn't seen. Stateless; every call scans
// the like relation fresh.
type Recommender struct {
	users UserLookup
	likes LikeSource
}

func New(users UserLookup, likes LikeSource) *Recommender {
	return &Recommender{users: users, likes: likes}
}

// Recommend returns candidate film ids for userID, ascending. A user
// with no likes, or with no overlap with anyone, gets an empty list.
func (r *Recommender) Recommend(ctx context.Context, userID int64) ([]int64, error) {
	if _, err := r.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	edges, err := r.likes.AllLikes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan likes: %w", err)
	}

	likesByUser := make(map[int64]map[int64]struct{})
	for _, e := range edges {
		set, ok := likesByUser[e.UserID]
		if !ok {
			set = make(map[int64]struct{})
			likesByUser[e.UserID] = set
		}
		set[e.FilmID] = struct{}{}
	}

	target := likesByUser[userID]
	if len(target) == 0 {
		return []int64{}, nil
	}

	// Pick the neighbor with the largest intersection; ties go to the
	// lowest user id so results are reproducible.
	var (
		neighborID int64
		bestScore  int
	)
	for id, set := range likesByUser {
		if id == userID {
			continue
		}
		score := 0
		for filmID := range set {
			if _, ok := target[filmID]; ok {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && id < neighborID) {
			neighborID = id
			bestScore = score
		}
	}
	if bestScore == 0 {
		return []int64{}, nil
	}

	candidates := make([]int64, 0, len(likesByUser[neighborID]))
	for filmID := range likesByUser[neighborID] {
		if _, ok := target[filmID]; !ok {
			candidates = append(candidates, filmID)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	return candidates, nil
}
