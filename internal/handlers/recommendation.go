// internal/handlers/recommendation.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/skovalyov/reelgraph/internal/models"
)

// Recommendations handles GET /users/{id}/recommendations, resolving
// the recommended film ids into film records.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	ids, err := s.Recommender.Recommend(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	films := make([]models.Film, 0, len(ids))
	for _, id := range ids {
		film, err := s.Films.GetFilm(r.Context(), id)
		if errors.Is(err, models.ErrFilmNotFound) {
			// like edge outlived the film, drop it
			continue
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		films = append(films, *film)
	}
	s.writeJSON(w, http.StatusOK, films)
}
