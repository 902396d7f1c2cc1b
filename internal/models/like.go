package models

// LikeEdge is one (user, film) fact from the like relation.
type LikeEdge struct {
	UserID int64 `json:"user_id"`
	FilmID int64 `json:"film_id"`
}
