package store

import (
	"context"
	"time"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type notificationStore struct {
	q db.Querier
}

func newNotificationStore(q db.Querier) NotificationStore {
	return &notificationStore{q: q}
}

const notificationColumns = `id, user_id, actor_id, kind, entity_type, entity_id, read_at, created_at`

func (s *notificationStore) Create(ctx context.Context, n *model.Notification) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, actor_id, kind, entity_type, entity_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+notificationColumns,
		n.ID, n.UserID, n.ActorID, n.Kind, n.EntityType, n.EntityID)
	return row.Scan(&n.ID, &n.UserID, &n.ActorID, &n.Kind, &n.EntityType, &n.EntityID, &n.ReadAt, &n.CreatedAt)
}

func (s *notificationStore) ListByUser(ctx context.Context, userID int64, limit int32) ([]model.Notification, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &n.Kind, &n.EntityType, &n.EntityID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *notificationStore) MarkRead(ctx context.Context, id, userID int64, readAt time.Time) error {
	// read_at IS NULL keeps the first read timestamp once set.
	_, err := s.q.Exec(ctx, `
		UPDATE notifications SET read_at = $3
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		id, userID, readAt)
	return err
}

func (s *notificationStore) MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error {
	_, err := s.q.Exec(ctx, `
		UPDATE notifications SET read_at = $2
		WHERE user_id = $1 AND read_at IS NULL`,
		userID, readAt)
	return err
}

func (s *notificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.q.QueryRow(ctx, `
		SELECT count(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	return count, err
}
