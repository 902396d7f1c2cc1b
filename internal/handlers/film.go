// internal/handlers/film.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skovalyov/reelgraph/internal/feed"
	"github.com/skovalyov/reelgraph/internal/models"
)

// CreateFilm handles POST /films.
func (s *Server) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := s.Films.CreateFilm(r.Context(), &film); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, film)
}

// ListFilms handles GET /films.
func (s *Server) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.Films.ListFilms(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, films)
}

// GetFilm handles GET /films/{id}.
func (s *Server) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid film id", http.StatusBadRequest)
		return
	}

	film, err := s.Films.GetFilm(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, film)
}

// AddLike handles PUT /films/{id}/like/{userId}.
func (s *Server) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := s.likeArgs(w, r)
	if err != nil {
		return
	}

	if err := s.Likes.AddLike(r.Context(), userID, filmID); err != nil {
		s.writeError(w, err)
		return
	}
	s.recordEvent(r.Context(), userID, feed.EventLike, feed.OpAdd, filmID)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("like recorded"))
}

// RemoveLike handles DELETE /films/{id}/like/{userId}.
func (s *Server) RemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := s.likeArgs(w, r)
	if err != nil {
		return
	}

	if err := s.Likes.RemoveLike(r.Context(), userID, filmID); err != nil {
		s.writeError(w, err)
		return
	}
	s.recordEvent(r.Context(), userID, feed.EventLike, feed.OpRemove, filmID)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("like removed"))
}

// likeArgs parses and validates the film and user referenced by a like
// route. It writes the error response itself.
func (s *Server) likeArgs(w http.ResponseWriter, r *http.Request) (filmID, userID int64, err error) {
	filmID, err = pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid film id", http.StatusBadRequest)
		return
	}
	userID, err = pathID(r, "userId")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if _, err = s.Films.GetFilm(r.Context(), filmID); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err = s.Users.GetUser(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}
	return filmID, userID, nil
}
