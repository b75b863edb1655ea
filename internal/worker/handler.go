package worker

import (
	"context"
	"fmt"
	"log"

	"buzzline/internal/model"
	"buzzline/internal/queue"
)

// TimelineIndexer abstracts the timeline cache so the worker doesn't
// depend on Redis directly.
type TimelineIndexer interface {
	// AddPost indexes a post in the global and author timelines.
	AddPost(ctx context.Context, authorID, postID, timestamp int64) error
}

// NotificationCreator abstracts the notification store.
type NotificationCreator interface {
	// Create stores a notification for userID about actorID's action.
	Create(ctx context.Context, userID, actorID int64, notifType string, postID *int64) error
}

// Handler processes engagement events from the queue.
type Handler struct {
	timeline TimelineIndexer
	notifs   NotificationCreator // Can be nil if notifications not wired
}

// NewHandler creates a new event handler.
func NewHandler(timeline TimelineIndexer, notifs NotificationCreator) *Handler {
	return &Handler{
		timeline: timeline,
		notifs:   notifs,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.EngagementEvent) error {
	var err error

	switch event.Type {
	case queue.EventPostCreated:
		err = h.handlePostCreated(ctx, event)
	case queue.EventPostLiked:
		err = h.handleEngagement(ctx, event, model.NotificationTypeLike)
	case queue.EventPostCommented:
		err = h.handleEngagement(ctx, event, model.NotificationTypeComment)
	case queue.EventUserFollowed:
		err = h.handleUserFollowed(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s err=%v", event.Type, err)
		return err
	}

	return nil
}

// handlePostCreated indexes a new post into the timeline caches.
func (h *Handler) handlePostCreated(ctx context.Context, event queue.EngagementEvent) error {
	log.Printf("[Worker] PostCreated: post=%d author=%d", event.PostID, event.AuthorID)

	if err := h.timeline.AddPost(ctx, event.AuthorID, event.PostID, event.Timestamp); err != nil {
		return fmt.Errorf("index post: %w", err)
	}

	return nil
}

// handleEngagement stores a like/comment notification for the post author.
func (h *Handler) handleEngagement(ctx context.Context, event queue.EngagementEvent, notifType string) error {
	log.Printf("[Worker] %s: post=%d actor=%d recipient=%d",
		event.Type, event.PostID, event.ActorID, event.RecipientID)

	if h.notifs == nil {
		return nil
	}

	// Don't notify users about their own actions
	if event.ActorID == event.RecipientID {
		return nil
	}

	postID := event.PostID
	if err := h.notifs.Create(ctx, event.RecipientID, event.ActorID, notifType, &postID); err != nil {
		return fmt.Errorf("create %s notification: %w", notifType, err)
	}

	return nil
}

// handleUserFollowed stores a follow notification for the followee.
func (h *Handler) handleUserFollowed(ctx context.Context, event queue.EngagementEvent) error {
	log.Printf("[Worker] UserFollowed: follower=%d followee=%d", event.FollowerID, event.FolloweeID)

	if h.notifs == nil {
		return nil
	}

	if err := h.notifs.Create(ctx, event.FolloweeID, event.FollowerID, model.NotificationTypeFollow, nil); err != nil {
		return fmt.Errorf("create follow notification: %w", err)
	}

	return nil
}
