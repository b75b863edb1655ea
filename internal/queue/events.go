package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the engagement stream
const (
	EventPostCreated   = "post_created"
	EventPostLiked     = "post_liked"
	EventPostCommented = "post_commented"
	EventUserFollowed  = "user_followed"
)

// Stream names
const (
	StreamEngagement = "stream:engagement"
)

// Consumer group name for engagement workers
const (
	ConsumerGroupEngagement = "engagement_workers"
)

// EngagementEvent represents an event published to the engagement stream.
// All events share this structure; unused fields stay zero.
type EngagementEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// Post events
	PostID   int64 `json:"post_id,omitempty"`
	AuthorID int64 `json:"author_id,omitempty"`

	// Engagement events (like/comment): who acted and who gets notified
	ActorID     int64 `json:"actor_id,omitempty"`
	RecipientID int64 `json:"recipient_id,omitempty"`

	// Follow event
	FollowerID int64 `json:"follower_id,omitempty"`
	FolloweeID int64 `json:"followee_id,omitempty"`
}

// NewPostCreatedEvent creates an event for when a user creates a post.
// Worker will index the post into the timeline caches.
func NewPostCreatedEvent(postID, authorID int64) EngagementEvent {
	return EngagementEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewPostLikedEvent creates an event for when a user likes a post.
// Worker will store a notification for the post author.
func NewPostLikedEvent(postID, actorID, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:        EventPostLiked,
		Timestamp:   time.Now().Unix(),
		PostID:      postID,
		ActorID:     actorID,
		RecipientID: recipientID,
	}
}

// NewPostCommentedEvent creates an event for when a user comments on a post.
func NewPostCommentedEvent(postID, actorID, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:        EventPostCommented,
		Timestamp:   time.Now().Unix(),
		PostID:      postID,
		ActorID:     actorID,
		RecipientID: recipientID,
	}
}

// NewUserFollowedEvent creates an event for when a user follows another.
func NewUserFollowedEvent(followerID, followeeID int64) EngagementEvent {
	return EngagementEvent{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e EngagementEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEngagementEvent parses an EngagementEvent from Redis stream message values.
func ParseEngagementEvent(values map[string]interface{}) (EngagementEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return EngagementEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event EngagementEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return EngagementEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
