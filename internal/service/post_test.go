package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"buzzline/internal/model"
	"buzzline/internal/queue"
)

func seedPost(posts *memPostStore, id, authorID int64) *model.Post {
	return posts.add(&model.Post{
		ID:        id,
		UserID:    authorID,
		Text:      "hello",
		CreatedAt: time.Now().UTC(),
	})
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestPostService_Create(t *testing.T) {
	imageURL := "https://cdn.example.com/a.jpg"

	tests := []struct {
		name    string
		req     model.CreatePostRequest
		wantErr error
	}{
		{
			name: "text post",
			req:  model.CreatePostRequest{UserID: 1, Text: "first post"},
		},
		{
			name: "image only",
			req:  model.CreatePostRequest{UserID: 1, ImageURL: &imageURL},
		},
		{
			name:    "empty post",
			req:     model.CreatePostRequest{UserID: 1},
			wantErr: model.ErrTextRequired,
		},
		{
			name:    "whitespace text",
			req:     model.CreatePostRequest{UserID: 1, Text: "   "},
			wantErr: model.ErrTextRequired,
		},
		{
			name:    "text too long",
			req:     model.CreatePostRequest{UserID: 1, Text: strings.Repeat("x", model.MaxPostTextLength+1)},
			wantErr: model.ErrTextTooLong,
		},
		{
			name:    "unknown author",
			req:     model.CreatePostRequest{UserID: 99, Text: "hello"},
			wantErr: model.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUserStore()
			seedUsers(users, 1)
			posts := newMemPostStore()
			pub := &mockPublisher{}
			svc := NewPostService(users, posts, pub)

			post, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if pub.published(queue.EventPostCreated) != 0 {
					t.Error("no event should be published on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if post.ID == 0 {
				t.Error("post should be assigned an ID")
			}
			if post.LikeCount != 0 || post.LikedBy.Len() != 0 {
				t.Error("new post should have no likes")
			}
			if post.ShareCount != 0 {
				t.Error("new post should have no shares")
			}
			if len(post.Comments) != 0 {
				t.Error("new post should have no comments")
			}
			if post.Author == nil || post.Author.ID != 1 {
				t.Error("post should carry its author summary")
			}
			if pub.published(queue.EventPostCreated) != 1 {
				t.Error("expected one PostCreated event")
			}
		})
	}
}

// =============================================================================
// LIKE TOGGLE TESTS
// =============================================================================

func TestPostService_ToggleLike(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 3)
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	pub := &mockPublisher{}
	svc := NewPostService(users, posts, pub)
	ctx := context.Background()

	// First toggle: like
	result, err := svc.ToggleLike(ctx, 10, 2)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if result.LikeCount != 1 || !result.LikedBy.Contains(2) {
		t.Errorf("after like: count=%d likedBy=%v", result.LikeCount, result.LikedBy.Values())
	}

	// Second toggle by same user: unlike
	result, err = svc.ToggleLike(ctx, 10, 2)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if result.LikeCount != 0 || result.LikedBy.Contains(2) {
		t.Errorf("after unlike: count=%d likedBy=%v", result.LikeCount, result.LikedBy.Values())
	}

	// Only the like published a notification event, not the unlike
	if got := pub.published(queue.EventPostLiked); got != 1 {
		t.Errorf("PostLiked events = %d, want 1", got)
	}
}

func TestPostService_ToggleLike_CountMatchesSet(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 5)
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	svc := NewPostService(users, posts, nil)
	ctx := context.Background()

	// A few users like, one of them unlikes, another re-likes
	for _, userID := range []int64{2, 3, 4, 5} {
		if _, err := svc.ToggleLike(ctx, 10, userID); err != nil {
			t.Fatalf("ToggleLike(%d) failed: %v", userID, err)
		}
	}
	if _, err := svc.ToggleLike(ctx, 10, 3); err != nil {
		t.Fatalf("unlike failed: %v", err)
	}

	post, err := posts.GetByID(ctx, 10)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if post.LikeCount != post.LikedBy.Len() {
		t.Errorf("LikeCount=%d but set size=%d", post.LikeCount, post.LikedBy.Len())
	}
	if post.LikeCount != 3 {
		t.Errorf("LikeCount = %d, want 3", post.LikeCount)
	}
	if post.LikedBy.Contains(3) {
		t.Error("user 3 unliked and should not be in the set")
	}
}

func TestPostService_ToggleLike_NotFound(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 1)
	posts := newMemPostStore()
	svc := NewPostService(users, posts, nil)

	if _, err := svc.ToggleLike(context.Background(), 99, 1); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("unknown post: error = %v, want %v", err, model.ErrPostNotFound)
	}

	seedPost(posts, 10, 1)
	if _, err := svc.ToggleLike(context.Background(), 10, 99); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("unknown user: error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestPostService_ToggleLike_RetriesOnConflict(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 2)
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	svc := NewPostService(users, posts, nil)

	// Two forced conflicts still leave one attempt to succeed
	posts.forceConflicts = 2

	result, err := svc.ToggleLike(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("ToggleLike should survive transient conflicts: %v", err)
	}
	if result.LikeCount != 1 {
		t.Errorf("LikeCount = %d, want 1", result.LikeCount)
	}
}

func TestPostService_ToggleLike_GivesUpAfterRetries(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 2)
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	svc := NewPostService(users, posts, nil)

	posts.forceConflicts = maxSaveAttempts

	_, err := svc.ToggleLike(context.Background(), 10, 2)
	if !errors.Is(err, model.ErrVersionConflict) {
		t.Errorf("error = %v, want %v", err, model.ErrVersionConflict)
	}
}

func TestPostService_ToggleLike_ConcurrentWriterNotLost(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 3)
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	svc := NewPostService(users, posts, nil)
	ctx := context.Background()

	// On user 2's first read, user 3's like lands in between. The version
	// check rejects the stale write and the retry sees both likes.
	fired := false
	posts.onGet = func(postID int64) {
		if fired {
			return
		}
		fired = true
		posts.onGet = nil
		if _, err := svc.ToggleLike(ctx, 10, 3); err != nil {
			t.Fatalf("interleaved like failed: %v", err)
		}
	}

	if _, err := svc.ToggleLike(ctx, 10, 2); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}

	post, _ := posts.GetByID(ctx, 10)
	if post.LikeCount != 2 {
		t.Errorf("LikeCount = %d, want 2 (no lost update)", post.LikeCount)
	}
	if !post.LikedBy.Contains(2) || !post.LikedBy.Contains(3) {
		t.Errorf("LikedBy = %v, want both 2 and 3", post.LikedBy.Values())
	}
}

// =============================================================================
// SHARE TESTS
// =============================================================================

func TestPostService_IncrementShare(t *testing.T) {
	users := newMemUserStore()
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	svc := NewPostService(users, posts, nil)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		result, err := svc.IncrementShare(ctx, 10)
		if err != nil {
			t.Fatalf("IncrementShare failed: %v", err)
		}
		if result.ShareCount != want {
			t.Errorf("ShareCount = %d, want %d", result.ShareCount, want)
		}
	}
}

func TestPostService_IncrementShare_NotFound(t *testing.T) {
	svc := NewPostService(newMemUserStore(), newMemPostStore(), nil)

	if _, err := svc.IncrementShare(context.Background(), 99); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

// =============================================================================
// GET TESTS
// =============================================================================

func TestPostService_GetByID(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 2)
	posts := newMemPostStore()
	seedPost(posts, 10, 1)
	svc := NewPostService(users, posts, nil)
	commentSvc := NewCommentService(users, posts, nil)
	ctx := context.Background()

	if _, err := commentSvc.Add(ctx, 10, model.AddCommentRequest{UserID: 2, Text: "nice"}); err != nil {
		t.Fatalf("Add comment failed: %v", err)
	}

	post, err := svc.GetByID(ctx, 10)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if post.Author == nil || post.Author.ID != 1 {
		t.Error("post author summary should be attached")
	}
	if len(post.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(post.Comments))
	}
	if post.Comments[0].Author == nil || post.Comments[0].Author.ID != 2 {
		t.Error("comment author summary should be attached")
	}
}

func TestPostService_GetByID_NotFound(t *testing.T) {
	svc := NewPostService(newMemUserStore(), newMemPostStore(), nil)

	if _, err := svc.GetByID(context.Background(), 404); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}
