package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type messageStore struct {
	q db.Querier
}

func newMessageStore(q db.Querier) MessageStore {
	return &messageStore{q: q}
}

const messageColumns = `id, conversation_id, sender_id, content, delivered_at, read_at, created_at`

func (s *messageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	row := s.q.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	return scanMessage(row)
}

func (s *messageStore) Create(ctx context.Context, msg *model.Message) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING `+messageColumns,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Content)
	created, err := scanMessage(row)
	if err != nil {
		return err
	}
	*msg = *created
	return nil
}

func (s *messageStore) ListByConversation(ctx context.Context, conversationID int64, before time.Time, limit int32) ([]model.Message, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE conversation_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3`, conversationID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *msg)
	}
	return msgs, rows.Err()
}

func (s *messageStore) MarkDelivered(ctx context.Context, conversationID, recipientID int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE messages SET delivered_at = now()
		WHERE conversation_id = $1 AND sender_id <> $2 AND delivered_at IS NULL`,
		conversationID, recipientID)
	return err
}

func (s *messageStore) MarkRead(ctx context.Context, conversationID, readerID int64, readAt time.Time) error {
	// read_at IS NULL keeps the transition monotonic: once set it is never
	// cleared or rewritten.
	_, err := s.q.Exec(ctx, `
		UPDATE messages SET read_at = $3, delivered_at = COALESCE(delivered_at, $3)
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL`,
		conversationID, readerID, readAt)
	return err
}

func (s *messageStore) CountUnread(ctx context.Context, conversationID, userID int64) (int64, error) {
	var count int64
	err := s.q.QueryRow(ctx, `
		SELECT count(*) FROM messages
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL`,
		conversationID, userID).Scan(&count)
	return count, err
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.DeliveredAt, &m.ReadAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
