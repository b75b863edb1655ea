package service

import (
	"context"
	"log"
	"sort"

	"buzzline/internal/cache"
	"buzzline/internal/model"
	"buzzline/internal/store"
)

// FeedService assembles reverse-chronological feeds. Post IDs come from the
// Redis timeline index when it's warm; the posts themselves are always
// hydrated from the store so engagement counters are never stale. Any cache
// failure degrades to a direct store read instead of failing the request.
type FeedService struct {
	postStore store.PostStore
	userStore store.UserStore
	timeline  cache.TimelineCache
}

func NewFeedService(postStore store.PostStore, userStore store.UserStore, timeline cache.TimelineCache) *FeedService {
	return &FeedService{
		postStore: postStore,
		userStore: userStore,
		timeline:  timeline,
	}
}

// ListPosts returns the feed newest-first. A nil authorID gives the global
// feed; otherwise only that author's posts. An unknown author just yields
// an empty feed, not an error.
func (s *FeedService) ListPosts(ctx context.Context, authorID *int64) ([]model.FeedEntry, error) {
	posts, err := s.postsFromTimeline(ctx, authorID)
	if err != nil {
		// Cache path failed, read straight from the store
		log.Printf("[FeedService] Timeline unavailable, falling back to store: err=%v", err)
		posts, err = s.postStore.List(ctx, authorID)
		if err != nil {
			return nil, err
		}
	}

	// The timeline index can lag behind the store, so order is settled here:
	// newest first, ID as the tie-break for posts created the same instant.
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})

	return s.toFeedEntries(ctx, posts), nil
}

// postsFromTimeline reads post IDs from the timeline cache, warming it from
// the store on a miss, then hydrates the posts.
func (s *FeedService) postsFromTimeline(ctx context.Context, authorID *int64) ([]model.Post, error) {
	if s.timeline == nil {
		posts, err := s.postStore.List(ctx, authorID)
		return posts, err
	}

	exists, err := s.timeline.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if !exists {
		posts, err := s.postStore.List(ctx, authorID)
		if err != nil {
			return nil, err
		}

		refs := make([]cache.PostRef, len(posts))
		for i, p := range posts {
			refs[i] = cache.PostRef{PostID: p.ID, Timestamp: p.CreatedAt.Unix()}
		}
		if err := s.timeline.Warm(ctx, authorID, refs); err != nil {
			// Posts are already in hand, warming is opportunistic
			log.Printf("[FeedService] Failed to warm timeline: err=%v", err)
		}

		return posts, nil
	}

	ids, err := s.timeline.Get(ctx, authorID, cache.TimelineCap)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Post{}, nil
	}

	return s.postStore.GetByIDs(ctx, ids)
}

// toFeedEntries flattens posts into feed entries with author display fields
// resolved in one batch. Missing authors leave the name fields empty.
func (s *FeedService) toFeedEntries(ctx context.Context, posts []model.Post) []model.FeedEntry {
	authorIDs := model.NewIDSet()
	for _, p := range posts {
		authorIDs.Add(p.UserID)
	}

	byID := make(map[int64]model.UserSummary)
	if authorIDs.Len() > 0 {
		summaries, err := s.userStore.GetSummaries(ctx, authorIDs.Values())
		if err != nil {
			log.Printf("[FeedService] Failed to fetch author summaries: err=%v", err)
		}
		for _, sum := range summaries {
			byID[sum.ID] = sum
		}
	}

	entries := make([]model.FeedEntry, len(posts))
	for i, p := range posts {
		entry := model.FeedEntry{
			PostID:       p.ID,
			AuthorID:     p.UserID,
			Text:         p.Text,
			ImageURL:     p.ImageURL,
			VideoURL:     p.VideoURL,
			LikeCount:    p.LikeCount,
			LikedBy:      p.LikedBy,
			ShareCount:   p.ShareCount,
			CommentCount: p.CommentCount(),
			CreatedAt:    p.CreatedAt,
		}
		if sum, ok := byID[p.UserID]; ok {
			entry.AuthorName = sum.DisplayName()
			entry.AuthorAvatar = sum.AvatarURL
		}
		entries[i] = entry
	}

	return entries
}
