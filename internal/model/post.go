package model

import (
	"errors"
	"time"
)

// Post represents a user's post with its engagement state.
// LikedBy, ShareCount and Comments are owned exclusively by the post
// document; all mutations go through the post and comment services.
// Invariant: LikeCount == len(LikedBy) after every successful write.
type Post struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Text       string    `db:"text" json:"text"`
	ImageURL   *string   `db:"image_url" json:"image_url,omitempty"`
	VideoURL   *string   `db:"video_url" json:"video_url,omitempty"`
	LikeCount  int       `db:"like_count" json:"like_count"`
	LikedBy    IDSet     `db:"-" json:"liked_by"`
	ShareCount int       `db:"share_count" json:"share_count"`
	Comments   []Comment `db:"-" json:"comments"`
	Version    int64     `db:"version" json:"-"` // optimistic-concurrency token
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// Joined field (not a column)
	Author *UserSummary `json:"author,omitempty"`
}

// CommentCount returns the length of the embedded comment sequence.
func (p *Post) CommentCount() int {
	return len(p.Comments)
}

// FeedEntry is a read-only projection of a post joined with its author's
// public identity. Comments are counted, not embedded; the detail view
// fetches them separately.
type FeedEntry struct {
	PostID       int64     `json:"post_id"`
	AuthorID     int64     `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar *string   `json:"author_avatar"`
	Text         string    `json:"text"`
	ImageURL     *string   `json:"image_url,omitempty"`
	VideoURL     *string   `json:"video_url,omitempty"`
	LikeCount    int       `json:"like_count"`
	LikedBy      IDSet     `json:"liked_by"`
	ShareCount   int       `json:"share_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// LikeResult is returned by the like toggle.
type LikeResult struct {
	LikeCount int   `json:"like_count"`
	LikedBy   IDSet `json:"liked_by"`
}

// ShareResult is returned by the share counter.
type ShareResult struct {
	ShareCount int `json:"share_count"`
}

// LikeRequest carries the acting user for the like toggle.
type LikeRequest struct {
	UserID int64 `json:"user_id"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	UserID   int64   `json:"user_id"`
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

// Post constraints
const (
	MaxPostTextLength = 2200
)

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrTextRequired = errors.New("post text is required")
	ErrTextTooLong  = errors.New("post text too long")

	// ErrVersionConflict signals a lost optimistic-concurrency race on a
	// post write. Services retry a bounded number of times; handlers map
	// it to 409 when the retries are exhausted.
	ErrVersionConflict = errors.New("post version conflict")
)
