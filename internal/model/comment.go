package model

import (
	"errors"
	"time"
)

// Comment is embedded in a post's comment sequence. It has no independent
// identity; position within the sequence is the only addressing scheme.
type Comment struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// Joined field for display
	Author *UserSummary `json:"author,omitempty"`
}

// AddCommentRequest is the request body for appending a comment.
type AddCommentRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentRequired = errors.New("comment text is required")
	ErrCommentTooLong  = errors.New("comment text too long")
)
