package service

import (
	"context"
	"log"
	"strings"
	"time"

	"buzzline/internal/model"
	"buzzline/internal/queue"
	"buzzline/internal/store"
)

// CommentService appends comments to the post's embedded comment list.
// Comments are append-only: there is no edit or delete, and ordering is
// insertion order.
type CommentService struct {
	userStore store.UserStore
	postStore store.PostStore
	publisher queue.Publisher
}

func NewCommentService(userStore store.UserStore, postStore store.PostStore, publisher queue.Publisher) *CommentService {
	return &CommentService{
		userStore: userStore,
		postStore: postStore,
		publisher: publisher,
	}
}

// Add validates and appends a comment to the post. The whole comment list
// is persisted with the post record, so the append rides the same
// version-checked save as likes and shares. Returns the post's full
// comment sequence in insertion order with author summaries attached.
func (s *CommentService) Add(ctx context.Context, postID int64, req model.AddCommentRequest) ([]model.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, model.ErrCommentRequired
	}
	if len(text) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	if _, err := s.userStore.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		UserID:    req.UserID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	// The closure may run more than once on conflict; updated ends up
	// holding the post state that was actually saved.
	var updated *model.Post
	err := mutatePost(ctx, s.postStore, postID, func(post *model.Post) {
		post.Comments = append(post.Comments, comment)
		updated = post
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CommentService] Add OK: post=%d user=%d comments=%d", postID, req.UserID, len(updated.Comments))

	if s.publisher != nil {
		event := queue.NewPostCommentedEvent(postID, req.UserID, updated.UserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[CommentService] Failed to publish PostCommented event: %v", err)
		}
	}

	attachAuthors(ctx, s.userStore, updated)
	return updated.Comments, nil
}

// List returns a post's comments in insertion order with author summaries.
func (s *CommentService) List(ctx context.Context, postID int64) ([]model.Comment, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	attachAuthors(ctx, s.userStore, post)

	if post.Comments == nil {
		return []model.Comment{}, nil
	}
	return post.Comments, nil
}
