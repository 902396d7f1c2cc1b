// internal/handlers/feed.go
package handlers

import "net/http"

// UserFeed handles GET /users/{id}/feed, serving the activity history
// the feed worker has persisted so far.
func (s *Server) UserFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if _, err := s.Users.GetUser(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}

	events, err := s.FeedHistory.UserFeed(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}
