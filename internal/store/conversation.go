package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type conversationStore struct {
	q db.Querier
}

func newConversationStore(q db.Querier) ConversationStore {
	return &conversationStore{q: q}
}

func (s *conversationStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, created_at, updated_at FROM conversations WHERE id = $1`, id)

	var c model.Conversation
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *conversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO conversations (id) VALUES ($1)
		RETURNING id, created_at, updated_at`, conv.ID)
	return row.Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
}

func (s *conversationStore) Touch(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `UPDATE conversations SET updated_at = now() WHERE id = $1`, id)
	return err
}

func (s *conversationStore) ListByUser(ctx context.Context, userID int64) ([]model.Conversation, error) {
	rows, err := s.q.Query(ctx, `
		SELECT c.id, c.created_at, c.updated_at
		FROM conversations c
		JOIN participants p ON p.conversation_id = c.id
		WHERE p.user_id = $1
		ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (s *conversationStore) AddParticipant(ctx context.Context, p *model.Participant) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO participants (conversation_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (conversation_id, user_id) DO NOTHING
		RETURNING conversation_id, user_id, last_read_at, joined_at`,
		p.ConversationID, p.UserID)
	if err := row.Scan(&p.ConversationID, &p.UserID, &p.LastReadAt, &p.JoinedAt); err != nil {
		// Conflict yields no row; the participant already exists, which is fine.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	return nil
}

func (s *conversationStore) ListParticipants(ctx context.Context, conversationID int64) ([]model.Participant, error) {
	rows, err := s.q.Query(ctx, `
		SELECT conversation_id, user_id, last_read_at, joined_at
		FROM participants WHERE conversation_id = $1
		ORDER BY joined_at ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ConversationID, &p.UserID, &p.LastReadAt, &p.JoinedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (s *conversationStore) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM participants WHERE conversation_id = $1 AND user_id = $2
		)`, conversationID, userID).Scan(&exists)
	return exists, err
}

func (s *conversationStore) UpdateLastRead(ctx context.Context, conversationID, userID int64, readAt time.Time) error {
	// GREATEST keeps last_read_at monotonic even if callers race.
	_, err := s.q.Exec(ctx, `
		UPDATE participants
		SET last_read_at = GREATEST(COALESCE(last_read_at, 'epoch'::timestamptz), $3)
		WHERE conversation_id = $1 AND user_id = $2`,
		conversationID, userID, readAt)
	return err
}
