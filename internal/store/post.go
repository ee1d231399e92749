package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type postStore struct {
	q db.Querier
}

func newPostStore(q db.Querier) PostStore {
	return &postStore{q: q}
}

const postColumns = `id, author_id, group_id, page_id, content, media_url, created_at, updated_at`

func (s *postStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	row := s.q.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (s *postStore) Create(ctx context.Context, post *model.Post) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, group_id, page_id, content, media_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+postColumns,
		post.ID, post.AuthorID, post.GroupID, post.PageID, post.Content, post.MediaURL)
	created, err := scanPost(row)
	if err != nil {
		return err
	}
	*post = *created
	return nil
}

func (s *postStore) Update(ctx context.Context, post *model.Post) error {
	row := s.q.QueryRow(ctx, `
		UPDATE posts SET content = $2, media_url = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+postColumns,
		post.ID, post.Content, post.MediaURL)
	updated, err := scanPost(row)
	if err != nil {
		return err
	}
	*post = *updated
	return nil
}

func (s *postStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (s *postStore) ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Post, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE author_id = $1 AND group_id IS NULL AND page_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2`, authorID, limit)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (s *postStore) ListByAuthors(ctx context.Context, authorIDs []int64, before time.Time, limit int32) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE author_id = ANY($1) AND group_id IS NULL AND page_id IS NULL AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3`, authorIDs, before, limit)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (s *postStore) ListByGroup(ctx context.Context, groupID int64, limit int32) ([]model.Post, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, groupID, limit)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (s *postStore) ListByPage(ctx context.Context, pageID int64, limit int32) ([]model.Post, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE page_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, pageID, limit)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.GroupID, &p.PageID, &p.Content, &p.MediaURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]model.Post, error) {
	defer rows.Close()
	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}
