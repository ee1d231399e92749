package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type commentStore struct {
	q db.Querier
}

func newCommentStore(q db.Querier) CommentStore {
	return &commentStore{q: q}
}

func (s *commentStore) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM comments WHERE id = $1`, id)

	var c model.Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *commentStore) Create(ctx context.Context, comment *model.Comment) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, author_id, content, created_at`,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content)
	return row.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content, &comment.CreatedAt)
}

func (s *commentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func (s *commentStore) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM comments WHERE post_id = $1
		ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

type reactionStore struct {
	q db.Querier
}

func newReactionStore(q db.Querier) ReactionStore {
	return &reactionStore{q: q}
}

func (s *reactionStore) Upsert(ctx context.Context, reaction *model.Reaction) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO reactions (id, post_id, user_id, kind)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
		RETURNING id, post_id, user_id, kind, created_at`,
		reaction.ID, reaction.PostID, reaction.UserID, reaction.Kind)
	return row.Scan(&reaction.ID, &reaction.PostID, &reaction.UserID, &reaction.Kind, &reaction.CreatedAt)
}

func (s *reactionStore) Delete(ctx context.Context, postID, userID int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM reactions WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

func (s *reactionStore) ListByPost(ctx context.Context, postID int64) ([]model.Reaction, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, post_id, user_id, kind, created_at
		FROM reactions WHERE post_id = $1
		ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []model.Reaction
	for rows.Next() {
		var r model.Reaction
		if err := rows.Scan(&r.ID, &r.PostID, &r.UserID, &r.Kind, &r.CreatedAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, r)
	}
	return reactions, rows.Err()
}

func (s *reactionStore) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := s.q.QueryRow(ctx, `SELECT count(*) FROM reactions WHERE post_id = $1`, postID).Scan(&count)
	return count, err
}
