package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type jobStore struct {
	q db.Querier
}

func newJobStore(q db.Querier) JobStore {
	return &jobStore{q: q}
}

const jobColumns = `id, company_id, posted_by, title, description, location, employment_type, salary_range, closed_at, created_at`

func (s *jobStore) GetByID(ctx context.Context, id int64) (*model.JobPost, error) {
	row := s.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_posts WHERE id = $1`, id)
	return scanJobPost(row)
}

func (s *jobStore) Create(ctx context.Context, job *model.JobPost) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO job_posts (id, company_id, posted_by, title, description, location, employment_type, salary_range)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+jobColumns,
		job.ID, job.CompanyID, job.PostedBy, job.Title, job.Description, job.Location, job.EmploymentType, job.SalaryRange)
	created, err := scanJobPost(row)
	if err != nil {
		return err
	}
	*job = *created
	return nil
}

func (s *jobStore) Update(ctx context.Context, job *model.JobPost) error {
	row := s.q.QueryRow(ctx, `
		UPDATE job_posts SET title = $2, description = $3, location = $4, employment_type = $5, salary_range = $6
		WHERE id = $1
		RETURNING `+jobColumns,
		job.ID, job.Title, job.Description, job.Location, job.EmploymentType, job.SalaryRange)
	updated, err := scanJobPost(row)
	if err != nil {
		return err
	}
	*job = *updated
	return nil
}

func (s *jobStore) Close(ctx context.Context, id int64, closedAt time.Time) error {
	_, err := s.q.Exec(ctx, `UPDATE job_posts SET closed_at = $2 WHERE id = $1 AND closed_at IS NULL`, id, closedAt)
	return err
}

func (s *jobStore) ListOpen(ctx context.Context, limit int32) ([]model.JobPost, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+jobColumns+` FROM job_posts
		WHERE closed_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectJobPosts(rows)
}

func (s *jobStore) ListByCompany(ctx context.Context, companyID int64) ([]model.JobPost, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+jobColumns+` FROM job_posts WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	return collectJobPosts(rows)
}

const applicationColumns = `id, job_post_id, applicant_id, resume_id, cover_letter, status, created_at`

func (s *jobStore) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO job_applications (id, job_post_id, applicant_id, resume_id, cover_letter, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+applicationColumns,
		app.ID, app.JobPostID, app.ApplicantID, app.ResumeID, app.CoverLetter, app.Status)
	return row.Scan(&app.ID, &app.JobPostID, &app.ApplicantID, &app.ResumeID, &app.CoverLetter, &app.Status, &app.CreatedAt)
}

func (s *jobStore) GetApplication(ctx context.Context, id int64) (*model.JobApplication, error) {
	row := s.q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id)
	var a model.JobApplication
	if err := row.Scan(&a.ID, &a.JobPostID, &a.ApplicantID, &a.ResumeID, &a.CoverLetter, &a.Status, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *jobStore) ListApplicationsByJob(ctx context.Context, jobPostID int64) ([]model.JobApplication, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+applicationColumns+` FROM job_applications WHERE job_post_id = $1 ORDER BY created_at ASC`, jobPostID)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func (s *jobStore) ListApplicationsByUser(ctx context.Context, applicantID int64) ([]model.JobApplication, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+applicationColumns+` FROM job_applications WHERE applicant_id = $1 ORDER BY created_at DESC`, applicantID)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func (s *jobStore) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	_, err := s.q.Exec(ctx, `UPDATE job_applications SET status = $2 WHERE id = $1`, id, status)
	return err
}

func scanJobPost(row pgx.Row) (*model.JobPost, error) {
	var j model.JobPost
	err := row.Scan(&j.ID, &j.CompanyID, &j.PostedBy, &j.Title, &j.Description, &j.Location, &j.EmploymentType, &j.SalaryRange, &j.ClosedAt, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func collectJobPosts(rows pgx.Rows) ([]model.JobPost, error) {
	defer rows.Close()
	var jobs []model.JobPost
	for rows.Next() {
		job, err := scanJobPost(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func collectApplications(rows pgx.Rows) ([]model.JobApplication, error) {
	defer rows.Close()
	var apps []model.JobApplication
	for rows.Next() {
		var a model.JobApplication
		if err := rows.Scan(&a.ID, &a.JobPostID, &a.ApplicantID, &a.ResumeID, &a.CoverLetter, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
