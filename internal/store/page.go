package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type pageStore struct {
	q db.Querier
}

func newPageStore(q db.Querier) PageStore {
	return &pageStore{q: q}
}

const pageColumns = `id, owner_id, name, slug, category, description, avatar_url, created_at`

func (s *pageStore) GetByID(ctx context.Context, id int64) (*model.Page, error) {
	row := s.q.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
	return scanPage(row)
}

func (s *pageStore) GetBySlug(ctx context.Context, slug string) (*model.Page, error) {
	row := s.q.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug)
	return scanPage(row)
}

func (s *pageStore) Create(ctx context.Context, page *model.Page) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO pages (id, owner_id, name, slug, category, description, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+pageColumns,
		page.ID, page.OwnerID, page.Name, page.Slug, page.Category, page.Description, page.AvatarURL)
	created, err := scanPage(row)
	if err != nil {
		return err
	}
	*page = *created
	return nil
}

func (s *pageStore) Update(ctx context.Context, page *model.Page) error {
	row := s.q.QueryRow(ctx, `
		UPDATE pages SET name = $2, category = $3, description = $4, avatar_url = $5
		WHERE id = $1
		RETURNING `+pageColumns,
		page.ID, page.Name, page.Category, page.Description, page.AvatarURL)
	updated, err := scanPage(row)
	if err != nil {
		return err
	}
	*page = *updated
	return nil
}

func (s *pageStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	return err
}

func (s *pageStore) List(ctx context.Context, limit int32) ([]model.Page, error) {
	rows, err := s.q.Query(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

func (s *pageStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Page, error) {
	rows, err := s.q.Query(ctx, `SELECT `+pageColumns+` FROM pages WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

func scanPage(row pgx.Row) (*model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Slug, &p.Category, &p.Description, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectPages(rows pgx.Rows) ([]model.Page, error) {
	defer rows.Close()
	var pages []model.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}
