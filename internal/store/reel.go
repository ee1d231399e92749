package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type reelStore struct {
	q db.Querier
}

func newReelStore(q db.Querier) ReelStore {
	return &reelStore{q: q}
}

const reelColumns = `id, author_id, caption, video_url, thumbnail_url, created_at`

func (s *reelStore) GetByID(ctx context.Context, id int64) (*model.Reel, error) {
	row := s.q.QueryRow(ctx, `SELECT `+reelColumns+` FROM reels WHERE id = $1`, id)
	return scanReel(row)
}

func (s *reelStore) Create(ctx context.Context, reel *model.Reel) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO reels (id, author_id, caption, video_url, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reelColumns,
		reel.ID, reel.AuthorID, reel.Caption, reel.VideoURL, reel.ThumbnailURL)
	created, err := scanReel(row)
	if err != nil {
		return err
	}
	*reel = *created
	return nil
}

func (s *reelStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM reels WHERE id = $1`, id)
	return err
}

func (s *reelStore) ListRecent(ctx context.Context, limit int32) ([]model.Reel, error) {
	rows, err := s.q.Query(ctx, `SELECT `+reelColumns+` FROM reels ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectReels(rows)
}

func (s *reelStore) ListByAuthor(ctx context.Context, authorID int64) ([]model.Reel, error) {
	rows, err := s.q.Query(ctx, `SELECT `+reelColumns+` FROM reels WHERE author_id = $1 ORDER BY created_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	return collectReels(rows)
}

func scanReel(row pgx.Row) (*model.Reel, error) {
	var r model.Reel
	err := row.Scan(&r.ID, &r.AuthorID, &r.Caption, &r.VideoURL, &r.ThumbnailURL, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func collectReels(rows pgx.Rows) ([]model.Reel, error) {
	defer rows.Close()
	var reels []model.Reel
	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return nil, err
		}
		reels = append(reels, *reel)
	}
	return reels, rows.Err()
}
