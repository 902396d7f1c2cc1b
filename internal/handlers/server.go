// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/skovalyov/reelgraph/internal/feed"
	"github.com/skovalyov/reelgraph/internal/models"
	"github.com/skovalyov/reelgraph/internal/recommend"
	"github.com/skovalyov/reelgraph/internal/social"
)

// UserStore is the user persistence the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// FilmStore is the film persistence the handlers need.
type FilmStore interface {
	CreateFilm(ctx context.Context, film *models.Film) error
	GetFilm(ctx context.Context, id int64) (*models.Film, error)
	ListFilms(ctx context.Context) ([]models.Film, error)
}

// LikeWriter mutates the like relation.
type LikeWriter interface {
	AddLike(ctx context.Context, userID, filmID int64) error
	RemoveLike(ctx context.Context, userID, filmID int64) error
}

// FeedReader serves the activity history persisted by the feed worker.
type FeedReader interface {
	UserFeed(ctx context.Context, userID int64) ([]feed.Event, error)
}

// Server holds the services behind the HTTP surface.
type Server struct {
	Users       UserStore
	Films       FilmStore
	Likes       LikeWriter
	Graph       *social.Graph
	Recommender *recommend.Recommender
	Feed        feed.Sink
	FeedHistory FeedReader
	Log         *logrus.Logger
}

// Routes builds the route table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("POST /users", s.CreateUser)
	mux.HandleFunc("GET /users", s.ListUsers)
	mux.HandleFunc("PUT /users", s.UpdateUser)
	mux.HandleFunc("GET /users/{id}", s.GetUser)
	mux.HandleFunc("DELETE /users/{id}", s.DeleteUser)

	// friend endpoints
	mux.HandleFunc("PUT /users/{id}/friends/{friendId}", s.AddFriend)
	mux.HandleFunc("DELETE /users/{id}/friends/{friendId}", s.RemoveFriend)
	mux.HandleFunc("GET /users/{id}/friends", s.ListFriends)
	mux.HandleFunc("GET /users/{id}/friends/common/{otherId}", s.CommonFriends)

	// recommendations and activity feed
	mux.HandleFunc("GET /users/{id}/recommendations", s.Recommendations)
	mux.HandleFunc("GET /users/{id}/feed", s.UserFeed)

	// film and like endpoints
	mux.HandleFunc("POST /films", s.CreateFilm)
	mux.HandleFunc("GET /films", s.ListFilms)
	mux.HandleFunc("GET /films/{id}", s.GetFilm)
	mux.HandleFunc("PUT /films/{id}/like/{userId}", s.AddLike)
	mux.HandleFunc("DELETE /films/{id}/like/{userId}", s.RemoveLike)

	return mux
}

// recordEvent publishes an activity event; failures are logged and never
// fail the request.
func (s *Server) recordEvent(ctx context.Context, actorID int64, eventType, operation string, entityID int64) {
	if s.Feed == nil {
		return
	}
	if err := s.Feed.RecordEvent(ctx, actorID, eventType, operation, entityID); err != nil {
		s.Log.WithError(err).Warn("failed to record feed event")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.WithError(err).Error("failed to encode response")
	}
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrFilmNotFound),
		errors.Is(err, models.ErrLikeNotFound),
		errors.Is(err, models.ErrNoRelationship):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrSelfFriendship):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.Log.WithError(err).Error("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// pathID parses a numeric path segment.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
