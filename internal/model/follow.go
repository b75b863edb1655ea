package model

import "errors"

// FollowRequest carries the acting user for follow/unfollow calls.
type FollowRequest struct {
	UserID int64 `json:"user_id"`
}

var (
	// ErrCannotFollowSelf is returned when a user tries to follow themselves.
	// Unfollow deliberately has no such guard; see DESIGN.md.
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
