package models

import "time"

type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Login    string    `json:"login"`
	Name     string    `json:"name"`
	Birthday time.Time `json:"birthday"`
}
