package service

import (
	"context"
	"fmt"
	"time"

	"loopline.app/server/internal/model"
	"loopline.app/server/internal/store"
)

type NotificationService interface {
	List(ctx context.Context, userID int64, limit int32) ([]model.Notification, error)
	// MarkRead is a no-op for notifications already read; the original
	// timestamp is preserved.
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type notificationService struct {
	notifications store.NotificationStore
}

func NewNotificationService(notifications store.NotificationStore) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, userID int64, limit int32) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifications.ListByUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if err := s.notifications.MarkRead(ctx, notificationID, userID, time.Now()); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.notifications.MarkAllRead(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}
