package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"buzzline/internal/model"
)

type postStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) PostStore {
	return &postStore{db: db}
}

// postRow mirrors the posts table. liked_by is bigint[], comments is a
// JSONB array holding the append-only comment sequence in insertion order.
type postRow struct {
	model.Post
	LikedByIDs   pq.Int64Array `db:"liked_by"`
	CommentsJSON []byte        `db:"comments"`
}

func (r *postRow) toPost() (*model.Post, error) {
	p := r.Post
	p.LikedBy = model.NewIDSet(r.LikedByIDs...)
	p.Comments = []model.Comment{}
	if len(r.CommentsJSON) > 0 {
		if err := json.Unmarshal(r.CommentsJSON, &p.Comments); err != nil {
			return nil, fmt.Errorf("decode comments: %w", err)
		}
	}
	return &p, nil
}

const postColumns = `id, user_id, text, image_url, video_url, like_count, liked_by,
	share_count, comments, version, created_at`

// Create inserts a new post with empty engagement state.
func (s *postStore) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (user_id, text, image_url, video_url, comments)
		VALUES ($1, $2, $3, $4, '[]'::jsonb)
		RETURNING id, like_count, share_count, version, created_at
	`
	row := s.db.QueryRowxContext(ctx, query, p.UserID, p.Text, p.ImageURL, p.VideoURL)

	err := row.Scan(&p.ID, &p.LikeCount, &p.ShareCount, &p.Version, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if p.LikedBy == nil {
		p.LikedBy = model.NewIDSet()
	}
	if p.Comments == nil {
		p.Comments = []model.Comment{}
	}

	return nil
}

// GetByID retrieves a single post document.
func (s *postStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var row postRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return row.toPost()
}

// GetByIDs retrieves multiple posts, re-ordered to match the input order.
// Used for hydrating the feed from the timeline cache.
func (s *postStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ANY($1)`
	var rows []postRow
	err := s.db.SelectContext(ctx, &rows, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}

	byID := make(map[int64]*model.Post, len(rows))
	for i := range rows {
		p, err := rows[i].toPost()
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}

	ordered := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, *p)
		}
	}

	return ordered, nil
}

// List returns posts newest first, id as the stable tie-break.
func (s *postStore) List(ctx context.Context, authorID *int64) ([]model.Post, error) {
	var rows []postRow
	var err error

	if authorID == nil {
		query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`
		err = s.db.SelectContext(ctx, &rows, query)
	} else {
		query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
		err = s.db.SelectContext(ctx, &rows, query, *authorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]model.Post, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toPost()
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}

	return posts, nil
}

// Save writes the full engagement state back, guarded by the version
// column. A concurrent writer bumps the version first and this write
// matches zero rows; callers re-read and retry on ErrVersionConflict.
func (s *postStore) Save(ctx context.Context, p *model.Post) error {
	commentsJSON, err := json.Marshal(p.Comments)
	if err != nil {
		return fmt.Errorf("encode comments: %w", err)
	}

	query := `
		UPDATE posts
		SET like_count = $1, liked_by = $2, share_count = $3, comments = $4,
		    version = version + 1
		WHERE id = $5 AND version = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		p.LikeCount,
		pq.Int64Array(p.LikedBy.Values()),
		p.ShareCount,
		commentsJSON,
		p.ID,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Either the post vanished or a concurrent writer advanced the
		// version. Distinguish so callers retry only real conflicts.
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, p.ID); err != nil {
			return fmt.Errorf("failed to check post existence: %w", err)
		}
		if !exists {
			return model.ErrPostNotFound
		}
		return model.ErrVersionConflict
	}

	p.Version++
	return nil
}
