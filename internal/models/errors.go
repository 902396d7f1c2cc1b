package models

import "errors"

// Domain errors distinguishable with errors.Is. Storage-level failures
// propagate wrapped and are none of these.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrFilmNotFound   = errors.New("film not found")
	ErrLikeNotFound   = errors.New("like not found")
	ErrSelfFriendship = errors.New("cannot befriend yourself")
	ErrNoRelationship = errors.New("no relationship exists between these users")
	ErrConflict       = errors.New("conflicting friendship state")
)
