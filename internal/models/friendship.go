package models

// FriendshipStatus is the relationship state of an unordered user pair.
type FriendshipStatus string

const (
	FriendshipNone      FriendshipStatus = "none"
	FriendshipPending   FriendshipStatus = "pending"
	FriendshipConfirmed FriendshipStatus = "confirmed"
)

// PairState describes the stored relationship between two users.
// RequesterID identifies the requesting side while Status is pending;
// for none/confirmed it carries no meaning.
type PairState struct {
	Status      FriendshipStatus `json:"status"`
	RequesterID int64            `json:"requester_id"`
}
