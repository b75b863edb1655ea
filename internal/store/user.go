package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"buzzline/internal/model"
)

// userStore implements UserStore using sqlx
type userStore struct {
	db *sqlx.DB
}

// NewUserStore creates a new user store
func NewUserStore(db *sqlx.DB) UserStore {
	return &userStore{db: db}
}

// userRow mirrors the users table. The followers/following columns are
// bigint[] and scan through pq.Int64Array before conversion to IDSet.
type userRow struct {
	model.User
	FollowerIDs  pq.Int64Array `db:"followers"`
	FollowingIDs pq.Int64Array `db:"following"`
}

func (r *userRow) toUser() *model.User {
	u := r.User
	u.Followers = model.NewIDSet(r.FollowerIDs...)
	u.Following = model.NewIDSet(r.FollowingIDs...)
	return &u
}

const userColumns = `id, first_name, last_name, email, password_hashed, avatar_url, bio,
	location, website, followers, following, created_at, updated_at`

// Create inserts a new user. A unique-violation on email surfaces as
// model.ErrEmailExists.
func (s *userStore) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hashed, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := s.db.QueryRowxContext(ctx, query,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHashed,
		u.AvatarURL,
	)

	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrEmailExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if u.Followers == nil {
		u.Followers = model.NewIDSet()
	}
	if u.Following == nil {
		u.Following = model.NewIDSet()
	}

	return nil
}

// GetByID retrieves a user by their ID
func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return row.toUser(), nil
}

// GetByEmail retrieves a user by their email
func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var row userRow
	err := s.db.GetContext(ctx, &row, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return row.toUser(), nil
}

// ExistsByEmail checks whether an email is already registered
func (s *userStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// Save persists profile fields and both relationship sets in a single
// unconditional write. Follow edges accept last-write-wins; the credential
// and email are never modified here.
func (s *userStore) Save(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, avatar_url = $3, bio = $4,
		    location = $5, website = $6, followers = $7, following = $8,
		    updated_at = NOW()
		WHERE id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		u.FirstName,
		u.LastName,
		u.AvatarURL,
		u.Bio,
		u.Location,
		u.Website,
		pq.Int64Array(u.Followers.Values()),
		pq.Int64Array(u.Following.Values()),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// GetSummaries batch-fetches display-safe summaries, ordered by id for
// deterministic output.
func (s *userStore) GetSummaries(ctx context.Context, ids []int64) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return []model.UserSummary{}, nil
	}

	query := `
		SELECT id, first_name, last_name, avatar_url
		FROM users
		WHERE id = ANY($1)
		ORDER BY id
	`
	var summaries []model.UserSummary
	err := s.db.SelectContext(ctx, &summaries, query, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get user summaries: %w", err)
	}

	return summaries, nil
}
