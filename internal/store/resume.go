package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type resumeStore struct {
	q db.Querier
}

func newResumeStore(q db.Querier) ResumeStore {
	return &resumeStore{q: q}
}

const resumeColumns = `id, user_id, title, summary, file_url, created_at, updated_at`

func (s *resumeStore) GetByID(ctx context.Context, id int64) (*model.Resume, error) {
	row := s.q.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	return scanResume(row)
}

func (s *resumeStore) Create(ctx context.Context, resume *model.Resume) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO resumes (id, user_id, title, summary, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+resumeColumns,
		resume.ID, resume.UserID, resume.Title, resume.Summary, resume.FileURL)
	created, err := scanResume(row)
	if err != nil {
		return err
	}
	*resume = *created
	return nil
}

func (s *resumeStore) Update(ctx context.Context, resume *model.Resume) error {
	row := s.q.QueryRow(ctx, `
		UPDATE resumes SET title = $2, summary = $3, file_url = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+resumeColumns,
		resume.ID, resume.Title, resume.Summary, resume.FileURL)
	updated, err := scanResume(row)
	if err != nil {
		return err
	}
	*resume = *updated
	return nil
}

func (s *resumeStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	return err
}

func (s *resumeStore) ListByUser(ctx context.Context, userID int64) ([]model.Resume, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []model.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}
	return resumes, rows.Err()
}

func scanResume(row pgx.Row) (*model.Resume, error) {
	var r model.Resume
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Summary, &r.FileURL, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}
