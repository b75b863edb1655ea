package store

import (
	"context"

	"buzzline/internal/model"
)

// UserStore is the durable identity store. Save persists the full record,
// relationship sets included, with last-write-wins semantics: the two sides
// of a follow edge are written independently and may transiently disagree
// under concurrent follow/unfollow calls.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *model.User) error
	// GetSummaries batch-fetches display-safe summaries for the given IDs.
	// One query via ANY($1), not N+1.
	GetSummaries(ctx context.Context, ids []int64) ([]model.UserSummary, error)
}

// PostStore is the durable post store. Save is a compare-and-swap on the
// post's version column and returns model.ErrVersionConflict when another
// writer got there first; callers re-read and retry so concurrent
// engagement mutations are never lost.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Post, error)
	// List returns posts ordered by created_at DESC, id DESC. A nil
	// authorID means all posts.
	List(ctx context.Context, authorID *int64) ([]model.Post, error)
	Save(ctx context.Context, post *model.Post) error
}

// NotificationStore persists the pull-model notification inbox.
type NotificationStore interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, postID *int64) error
	GetByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
}
