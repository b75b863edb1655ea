package service

import (
	"context"
	"log"

	"buzzline/internal/model"
	"buzzline/internal/queue"
	"buzzline/internal/store"
)

// FollowService maintains the bidirectional follow graph. Each user record
// owns its Followers and Following sets, so a follow touches two records.
// The two writes are independent: there is no transaction spanning them,
// and a crash between them leaves a half-edge that the next follow or
// unfollow repairs. This trades strict consistency for simple storage.
type FollowService struct {
	userStore store.UserStore
	publisher queue.Publisher
}

func NewFollowService(userStore store.UserStore, publisher queue.Publisher) *FollowService {
	return &FollowService{
		userStore: userStore,
		publisher: publisher,
	}
}

// Follow adds followeeID to the follower's Following set and followerID to
// the followee's Followers set. Following someone you already follow is a
// no-op success, not a conflict.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	follower, err := s.userStore.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	followee, err := s.userStore.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}

	addedFollowing := follower.Following.Add(followeeID)
	addedFollower := followee.Followers.Add(followerID)

	if !addedFollowing && !addedFollower {
		// Edge already exists on both sides
		return nil
	}

	// Two independent writes. If the second fails the edge is half-written;
	// retrying the follow converges it.
	if addedFollowing {
		if err := s.userStore.Save(ctx, follower); err != nil {
			return err
		}
	}
	if addedFollower {
		if err := s.userStore.Save(ctx, followee); err != nil {
			return err
		}
	}

	log.Printf("[FollowService] Follow OK: follower=%d followee=%d", followerID, followeeID)

	// Publish event for async notification (after writes, best-effort)
	if s.publisher != nil {
		event := queue.NewUserFollowedEvent(followerID, followeeID)
		msgID, err := s.publisher.Publish(ctx, queue.StreamEngagement, event)
		if err != nil {
			log.Printf("[FollowService] Failed to publish UserFollowed event: follower=%d followee=%d err=%v",
				followerID, followeeID, err)
		} else {
			log.Printf("[FollowService] Published UserFollowed: follower=%d followee=%d msgID=%s",
				followerID, followeeID, msgID)
		}
	}

	return nil
}

// Unfollow removes the edge from both sides. Removing an edge that doesn't
// exist is a silent no-op. Unlike Follow, there is no self-unfollow guard;
// unfollowing yourself simply finds no edge and does nothing.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	follower, err := s.userStore.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	followee, err := s.userStore.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}

	removedFollowing := follower.Following.Remove(followeeID)
	removedFollower := followee.Followers.Remove(followerID)

	if !removedFollowing && !removedFollower {
		return nil
	}

	if removedFollowing {
		if err := s.userStore.Save(ctx, follower); err != nil {
			return err
		}
	}
	if removedFollower {
		if err := s.userStore.Save(ctx, followee); err != nil {
			return err
		}
	}

	log.Printf("[FollowService] Unfollow OK: follower=%d followee=%d", followerID, followeeID)
	return nil
}

// GetFollowers returns summaries of users who follow userID, ordered by ID.
func (s *FollowService) GetFollowers(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userStore.GetSummaries(ctx, user.Followers.Values())
}

// GetFollowing returns summaries of users that userID follows, ordered by ID.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userStore.GetSummaries(ctx, user.Following.Values())
}
