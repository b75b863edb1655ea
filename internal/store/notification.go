package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"buzzline/internal/model"
)

type notificationStore struct {
	db *sqlx.DB
}

func NewNotificationStore(db *sqlx.DB) NotificationStore {
	return &notificationStore{db: db}
}

// Create inserts a new notification.
func (s *notificationStore) Create(ctx context.Context, userID, actorID int64, notifType string, postID *int64) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, post_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, userID, actorID, notifType, postID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetByUser returns the newest notifications for a user with actor info joined.
func (s *notificationStore) GetByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.actor_id, n.type, n.post_id, n.created_at,
		       u.id as "actor.id", u.first_name as "actor.first_name",
		       u.last_name as "actor.last_name", u.avatar_url as "actor.avatar_url"
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2
	`

	type notifRow struct {
		ID             int64     `db:"id"`
		UserID         int64     `db:"user_id"`
		ActorID        int64     `db:"actor_id"`
		Type           string    `db:"type"`
		PostID         *int64    `db:"post_id"`
		CreatedAt      time.Time `db:"created_at"`
		ActorIDJoined  int64     `db:"actor.id"`
		ActorFirstName string    `db:"actor.first_name"`
		ActorLastName  string    `db:"actor.last_name"`
		ActorAvatarURL *string   `db:"actor.avatar_url"`
	}

	var rows []notifRow
	err := s.db.SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, r := range rows {
		notifications[i] = model.Notification{
			ID:        r.ID,
			UserID:    r.UserID,
			ActorID:   r.ActorID,
			Type:      r.Type,
			PostID:    r.PostID,
			CreatedAt: r.CreatedAt,
			Actor: &model.UserSummary{
				ID:        r.ActorIDJoined,
				FirstName: r.ActorFirstName,
				LastName:  r.ActorLastName,
				AvatarURL: r.ActorAvatarURL,
			},
		}
	}

	return notifications, nil
}
