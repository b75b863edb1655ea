package service

import (
	"context"

	"buzzline/internal/model"
	"buzzline/internal/store"
)

// NotificationService serves the pull-model notification inbox. Records are
// written by the engagement workers; clients poll for them.
type NotificationService struct {
	notifStore store.NotificationStore
}

func NewNotificationService(notifStore store.NotificationStore) *NotificationService {
	return &NotificationService{notifStore: notifStore}
}

// GetNotifications returns the most recent notifications for a user,
// newest first, with actor summaries joined in.
func (s *NotificationService) GetNotifications(ctx context.Context, userID int64, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	notifications, err := s.notifStore.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}

	return &model.NotificationListResponse{Notifications: notifications}, nil
}
