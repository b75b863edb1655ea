package service

import (
	"context"
	"sync"

	"buzzline/internal/cache"
	"buzzline/internal/model"
	"buzzline/internal/queue"
)

// =============================================================================
// IN-MEMORY STORES
// =============================================================================
//
// The services are tested against in-memory stores that honor the same
// contracts as the Postgres-backed ones: last-write-wins saves for users,
// version compare-and-swap for posts. This lets the tests exercise real
// concurrency semantics (conflict, retry) without a database.

type memUserStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64

	// Error injection
	getErr  error
	saveErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func (s *memUserStore) add(user *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	} else if user.ID >= s.nextID {
		s.nextID = user.ID + 1
	}
	if user.Followers == nil {
		user.Followers = model.NewIDSet()
	}
	if user.Following == nil {
		user.Following = model.NewIDSet()
	}
	s.users[user.ID] = cloneUser(user)
	return user
}

func (s *memUserStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.ErrEmailExists
		}
	}
	s.add(user)
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *memUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Save(ctx context.Context, user *model.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *memUserStore) GetSummaries(ctx context.Context, ids []int64) ([]model.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			summaries = append(summaries, model.UserSummary{
				ID:        u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				AvatarURL: u.AvatarURL,
			})
		}
	}
	return summaries, nil
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Followers = u.Followers.Clone()
	c.Following = u.Following.Clone()
	return &c
}

type memPostStore struct {
	mu     sync.Mutex
	posts  map[int64]*model.Post
	nextID int64

	// forceConflicts makes the next N saves fail with ErrVersionConflict
	// regardless of version, to exercise the retry loop.
	forceConflicts int

	// onGet runs after each successful GetByID, before returning. Tests use
	// it to simulate a concurrent writer sneaking in between read and save.
	onGet func(postID int64)

	getErr  error
	saveErr error
}

func newMemPostStore() *memPostStore {
	return &memPostStore{
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func (s *memPostStore) add(post *model.Post) *model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == 0 {
		post.ID = s.nextID
		s.nextID++
	} else if post.ID >= s.nextID {
		s.nextID = post.ID + 1
	}
	if post.LikedBy == nil {
		post.LikedBy = model.NewIDSet()
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	s.posts[post.ID] = clonePost(post)
	return post
}

func (s *memPostStore) Create(ctx context.Context, post *model.Post) error {
	s.add(post)
	return nil
}

func (s *memPostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	p, ok := s.posts[id]
	if !ok {
		s.mu.Unlock()
		return nil, model.ErrPostNotFound
	}
	c := clonePost(p)
	s.mu.Unlock()

	if s.onGet != nil {
		s.onGet(id)
	}
	return c, nil
}

func (s *memPostStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (s *memPostStore) List(ctx context.Context, authorID *int64) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []model.Post
	for _, p := range s.posts {
		if authorID != nil && p.UserID != *authorID {
			continue
		}
		posts = append(posts, *clonePost(p))
	}
	return posts, nil
}

func (s *memPostStore) Save(ctx context.Context, post *model.Post) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forceConflicts > 0 {
		s.forceConflicts--
		return model.ErrVersionConflict
	}

	current, ok := s.posts[post.ID]
	if !ok {
		return model.ErrPostNotFound
	}
	if current.Version != post.Version {
		return model.ErrVersionConflict
	}
	post.Version++
	s.posts[post.ID] = clonePost(post)
	return nil
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.LikedBy = p.LikedBy.Clone()
	c.Comments = append([]model.Comment(nil), p.Comments...)
	return &c
}

// =============================================================================
// MOCK PUBLISHER AND TIMELINE
// =============================================================================

type mockPublisher struct {
	mu     sync.Mutex
	events []queue.EngagementEvent
}

func (p *mockPublisher) Publish(ctx context.Context, stream string, event queue.EngagementEvent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return "1-0", nil
}

func (p *mockPublisher) published(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type mockTimeline struct {
	mu      sync.Mutex
	entries map[string][]cache.PostRef

	existsErr error
	getErr    error
}

func newMockTimeline() *mockTimeline {
	return &mockTimeline{entries: make(map[string][]cache.PostRef)}
}

func timelineTestKey(authorID *int64) string {
	if authorID == nil {
		return "all"
	}
	return "author"
}

func (m *mockTimeline) AddPost(ctx context.Context, authorID, postID, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := cache.PostRef{PostID: postID, Timestamp: timestamp}
	m.entries["all"] = append(m.entries["all"], ref)
	m.entries["author"] = append(m.entries["author"], ref)
	return nil
}

func (m *mockTimeline) Get(ctx context.Context, authorID *int64, limit int) ([]int64, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	refs := m.entries[timelineTestKey(authorID)]
	ids := make([]int64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.PostID)
	}
	return ids, nil
}

func (m *mockTimeline) Warm(ctx context.Context, authorID *int64, refs []cache.PostRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[timelineTestKey(authorID)] = append([]cache.PostRef(nil), refs...)
	return nil
}

func (m *mockTimeline) Exists(ctx context.Context, authorID *int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries[timelineTestKey(authorID)]) > 0, nil
}
