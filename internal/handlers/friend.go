// internal/handlers/friend.go
package handlers

import (
	"net/http"

	"github.com/skovalyov/reelgraph/internal/feed"
)

// AddFriend handles PUT /users/{id}/friends/{friendId}.
//
// A first request leaves the pair pending; the reciprocal request from
// the other side confirms it. Repeats are no-ops.
func (s *Server) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	friendID, err := pathID(r, "friendId")
	if err != nil {
		http.Error(w, "invalid friend id", http.StatusBadRequest)
		return
	}

	friend, err := s.Graph.RequestFriendship(r.Context(), userID, friendID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.recordEvent(r.Context(), userID, feed.EventFriend, feed.OpAdd, friendID)
	s.writeJSON(w, http.StatusOK, friend)
}

// RemoveFriend handles DELETE /users/{id}/friends/{friendId}.
func (s *Server) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	friendID, err := pathID(r, "friendId")
	if err != nil {
		http.Error(w, "invalid friend id", http.StatusBadRequest)
		return
	}

	friend, err := s.Graph.CancelFriendship(r.Context(), userID, friendID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.recordEvent(r.Context(), userID, feed.EventFriend, feed.OpRemove, friendID)
	s.writeJSON(w, http.StatusOK, friend)
}

// ListFriends handles GET /users/{id}/friends.
func (s *Server) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	friends, err := s.Graph.ListFriends(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, friends)
}

// CommonFriends handles GET /users/{id}/friends/common/{otherId}.
func (s *Server) CommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	otherID, err := pathID(r, "otherId")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	common, err := s.Graph.FindCommonFriends(r.Context(), userID, otherID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, common)
}
