package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type reportStore struct {
	q db.Querier
}

func newReportStore(q db.Querier) ReportStore {
	return &reportStore{q: q}
}

const reportColumns = `id, reporter_id, entity_type, entity_id, reason, status, resolved_at, created_at`

func (s *reportStore) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	row := s.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	return scanReport(row)
}

func (s *reportStore) Create(ctx context.Context, report *model.Report) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO reports (id, reporter_id, entity_type, entity_id, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+reportColumns,
		report.ID, report.ReporterID, report.EntityType, report.EntityID, report.Reason, report.Status)
	created, err := scanReport(row)
	if err != nil {
		return err
	}
	*report = *created
	return nil
}

func (s *reportStore) ListByStatus(ctx context.Context, status string, limit int32) ([]model.Report, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func (s *reportStore) UpdateStatus(ctx context.Context, id int64, status string, resolvedAt *time.Time) error {
	_, err := s.q.Exec(ctx, `UPDATE reports SET status = $2, resolved_at = $3 WHERE id = $1`, id, status, resolvedAt)
	return err
}

func scanReport(row pgx.Row) (*model.Report, error) {
	var r model.Report
	err := row.Scan(&r.ID, &r.ReporterID, &r.EntityType, &r.EntityID, &r.Reason, &r.Status, &r.ResolvedAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

type statsStore struct {
	q db.Querier
}

func newStatsStore(q db.Querier) StatsStore {
	return &statsStore{q: q}
}

func (s *statsStore) Totals(ctx context.Context) (*model.Totals, error) {
	row := s.q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM posts),
			(SELECT count(*) FROM messages),
			(SELECT count(*) FROM groups),
			(SELECT count(*) FROM listings),
			(SELECT count(*) FROM job_posts),
			(SELECT count(*) FROM events),
			(SELECT count(*) FROM reports WHERE status = 'open')`)
	var t model.Totals
	if err := row.Scan(&t.Users, &t.Posts, &t.Messages, &t.Groups, &t.Listings, &t.JobPosts, &t.Events, &t.OpenReports); err != nil {
		return nil, err
	}
	return &t, nil
}
