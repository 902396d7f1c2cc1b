package models

import "time"

type Film struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ReleaseDate time.Time `json:"release_date"`
}
