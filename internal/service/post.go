package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"buzzline/internal/model"
	"buzzline/internal/queue"
	"buzzline/internal/store"
)

// maxSaveAttempts bounds the compare-and-swap retry loop on concurrent
// engagement writes. Each attempt re-reads the post, so a conflict means
// another writer's change is already visible on the next try.
const maxSaveAttempts = 3

// PostService owns post creation and the engagement counters that live on
// the post record: the LikedBy set, LikeCount, and ShareCount. All mutations
// go through a read-modify-save loop guarded by the post's version column.
type PostService struct {
	userStore store.UserStore
	postStore store.PostStore
	publisher queue.Publisher
}

func NewPostService(userStore store.UserStore, postStore store.PostStore, publisher queue.Publisher) *PostService {
	return &PostService{
		userStore: userStore,
		postStore: postStore,
		publisher: publisher,
	}
}

// Create creates a new post and publishes an event for timeline indexing.
func (s *PostService) Create(ctx context.Context, req model.CreatePostRequest) (*model.Post, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.ImageURL == nil && req.VideoURL == nil {
		return nil, model.ErrTextRequired
	}
	if len(text) > model.MaxPostTextLength {
		return nil, model.ErrTextTooLong
	}

	// Author must exist
	author, err := s.userStore.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:   req.UserID,
		Text:     text,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		LikedBy:  model.NewIDSet(),
		Comments: []model.Comment{},
	}

	if err := s.postStore.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	// Publish event for async timeline indexing
	if s.publisher != nil {
		event := queue.NewPostCreatedEvent(post.ID, req.UserID)
		msgID, err := s.publisher.Publish(ctx, queue.StreamEngagement, event)
		if err != nil {
			// Log but don't fail - post is created, indexing happens on cache warm
			log.Printf("[PostService] Failed to publish PostCreated event: post=%d err=%v", post.ID, err)
		} else {
			log.Printf("[PostService] Published PostCreated: post=%d msgID=%s", post.ID, msgID)
		}
	}

	post.Author = &model.UserSummary{
		ID:        author.ID,
		FirstName: author.FirstName,
		LastName:  author.LastName,
		AvatarURL: author.AvatarURL,
	}

	return post, nil
}

// GetByID retrieves a single post with author info and comment authors attached.
func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	attachAuthors(ctx, s.userStore, post)
	return post, nil
}

// ToggleLike flips the caller's membership in the post's LikedBy set.
// Liking a liked post unlikes it; LikeCount always equals the set size.
// Returns the resulting like count and liker set.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID int64) (*model.LikeResult, error) {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var result *model.LikeResult
	var liked bool
	var authorID int64

	err := mutatePost(ctx, s.postStore, postID, func(post *model.Post) {
		if post.LikedBy.Contains(userID) {
			post.LikedBy.Remove(userID)
			liked = false
		} else {
			post.LikedBy.Add(userID)
			liked = true
		}
		post.LikeCount = post.LikedBy.Len()
		authorID = post.UserID
		result = &model.LikeResult{
			LikeCount: post.LikeCount,
			LikedBy:   post.LikedBy.Clone(),
		}
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PostService] ToggleLike OK: post=%d user=%d liked=%v count=%d",
		postID, userID, liked, result.LikeCount)

	// Notify the author only when a like lands, not when it's withdrawn
	if liked && s.publisher != nil {
		event := queue.NewPostLikedEvent(postID, userID, authorID)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[PostService] Failed to publish PostLiked event: %v", err)
		}
	}

	return result, nil
}

// IncrementShare bumps the post's share counter. Shares are anonymous and
// unbounded: no record of who shared, the count only ever grows.
func (s *PostService) IncrementShare(ctx context.Context, postID int64) (*model.ShareResult, error) {
	var result *model.ShareResult

	err := mutatePost(ctx, s.postStore, postID, func(post *model.Post) {
		post.ShareCount++
		result = &model.ShareResult{ShareCount: post.ShareCount}
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PostService] IncrementShare OK: post=%d count=%d", postID, result.ShareCount)
	return result, nil
}

// mutatePost runs the read-modify-save loop: load the post, apply fn, save
// with the version check, and on conflict re-read and reapply. fn must be
// safe to call more than once against fresh state.
func mutatePost(ctx context.Context, posts store.PostStore, postID int64, fn func(*model.Post)) error {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		post, err := posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}

		fn(post)

		err = posts.Save(ctx, post)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return err
		}

		log.Printf("[PostService] Version conflict on post=%d, attempt %d/%d", postID, attempt, maxSaveAttempts)
	}

	return model.ErrVersionConflict
}

// attachAuthors fills in the post author summary and comment author
// summaries with one batch lookup. Lookup failures degrade to bare IDs
// rather than failing the read.
func attachAuthors(ctx context.Context, users store.UserStore, post *model.Post) {
	ids := model.NewIDSet(post.UserID)
	for _, c := range post.Comments {
		ids.Add(c.UserID)
	}

	summaries, err := users.GetSummaries(ctx, ids.Values())
	if err != nil {
		log.Printf("[PostService] Failed to fetch author summaries: post=%d err=%v", post.ID, err)
		return
	}

	byID := make(map[int64]model.UserSummary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}

	if sum, ok := byID[post.UserID]; ok {
		s2 := sum
		post.Author = &s2
	}
	for i := range post.Comments {
		if sum, ok := byID[post.Comments[i].UserID]; ok {
			s2 := sum
			post.Comments[i].Author = &s2
		}
	}
}
