package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/store"
)

var (
	ErrJobNotFound         = errors.New("job post not found")
	ErrJobClosed           = errors.New("job post is closed")
	ErrApplicationNotFound = errors.New("application not found")
	ErrBadEmploymentType   = errors.New("unknown employment type")
	ErrBadApplicationState = errors.New("unknown application status")
)

var employmentTypes = map[string]bool{
	model.EmploymentFullTime: true,
	model.EmploymentPartTime: true,
	model.EmploymentContract: true,
}

var applicationStatuses = map[string]bool{
	model.ApplicationSubmitted: true,
	model.ApplicationReviewed:  true,
	model.ApplicationRejected:  true,
	model.ApplicationAccepted:  true,
}

type CreateJobParams struct {
	CompanyID      int64
	Title          string
	Description    string
	Location       string
	EmploymentType string
	SalaryRange    *string
}

type JobService interface {
	Create(ctx context.Context, userID int64, params CreateJobParams) (*model.JobPost, error)
	Get(ctx context.Context, jobID int64) (*model.JobPost, error)
	Close(ctx context.Context, userID, jobID int64) error
	ListOpen(ctx context.Context, limit int32) ([]model.JobPost, error)
	ListByCompany(ctx context.Context, companyID int64) ([]model.JobPost, error)
	SearchJobs(ctx context.Context, query string, limit int) ([]search.Hit, error)

	Apply(ctx context.Context, applicantID, jobID int64, resumeID *int64, coverLetter string) (*model.JobApplication, error)
	ListApplications(ctx context.Context, userID, jobID int64) ([]model.JobApplication, error)
	MyApplications(ctx context.Context, applicantID int64) ([]model.JobApplication, error)
	ReviewApplication(ctx context.Context, userID, applicationID int64, status string) error
}

type jobService struct {
	jobs      store.JobStore
	companies store.CompanyStore
	producer  queue.Producer
	search    search.Client
}

func NewJobService(jobs store.JobStore, companies store.CompanyStore, producer queue.Producer, searchClient search.Client) JobService {
	return &jobService{
		jobs:      jobs,
		companies: companies,
		producer:  producer,
		search:    searchClient,
	}
}

func (s *jobService) Create(ctx context.Context, userID int64, params CreateJobParams) (*model.JobPost, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.job",
		UserID:    &userID,
	})

	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrEmptyContent
	}
	if !employmentTypes[params.EmploymentType] {
		return nil, ErrBadEmploymentType
	}

	company, err := s.companies.GetByID(ctx, params.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("getting company: %w", err)
	}
	if company.OwnerID != userID {
		return nil, ErrNotCompanyOwner
	}

	job := &model.JobPost{
		ID:             id.New(),
		CompanyID:      params.CompanyID,
		PostedBy:       userID,
		Title:          params.Title,
		Description:    params.Description,
		Location:       params.Location,
		EmploymentType: params.EmploymentType,
		SalaryRange:    params.SalaryRange,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job post: %w", err)
	}

	s.enqueueIndex(ctx, job.ID, queue.IndexOpUpsert)

	slog.InfoContext(ctx, "job post created", "job_id", job.ID, "company_id", job.CompanyID)
	return job, nil
}

func (s *jobService) Get(ctx context.Context, jobID int64) (*model.JobPost, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting job post: %w", err)
	}
	return job, nil
}

func (s *jobService) Close(ctx context.Context, userID, jobID int64) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if err := s.requireCompanyOwner(ctx, job.CompanyID, userID); err != nil {
		return err
	}

	if err := s.jobs.Close(ctx, jobID, time.Now()); err != nil {
		return fmt.Errorf("closing job post: %w", err)
	}

	s.enqueueIndex(ctx, jobID, queue.IndexOpDelete)
	return nil
}

func (s *jobService) ListOpen(ctx context.Context, limit int32) ([]model.JobPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.jobs.ListOpen(ctx, limit)
}

func (s *jobService) ListByCompany(ctx context.Context, companyID int64) ([]model.JobPost, error) {
	return s.jobs.ListByCompany(ctx, companyID)
}

func (s *jobService) SearchJobs(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	return s.search.Search(ctx, search.CollectionJobPosts, query, limit)
}

func (s *jobService) Apply(ctx context.Context, applicantID, jobID int64, resumeID *int64, coverLetter string) (*model.JobApplication, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.job",
		UserID:    &applicantID,
	})

	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClosedAt != nil {
		return nil, ErrJobClosed
	}

	app := &model.JobApplication{
		ID:          id.New(),
		JobPostID:   jobID,
		ApplicantID: applicantID,
		ResumeID:    resumeID,
		CoverLetter: coverLetter,
		Status:      model.ApplicationSubmitted,
	}
	if err := s.jobs.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}

	slog.InfoContext(ctx, "job application submitted", "application_id", app.ID, "job_id", jobID)
	return app, nil
}

func (s *jobService) ListApplications(ctx context.Context, userID, jobID int64) ([]model.JobApplication, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCompanyOwner(ctx, job.CompanyID, userID); err != nil {
		return nil, err
	}
	return s.jobs.ListApplicationsByJob(ctx, jobID)
}

func (s *jobService) MyApplications(ctx context.Context, applicantID int64) ([]model.JobApplication, error) {
	return s.jobs.ListApplicationsByUser(ctx, applicantID)
}

func (s *jobService) ReviewApplication(ctx context.Context, userID, applicationID int64, status string) error {
	if !applicationStatuses[status] {
		return ErrBadApplicationState
	}

	app, err := s.jobs.GetApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("getting application: %w", err)
	}

	job, err := s.Get(ctx, app.JobPostID)
	if err != nil {
		return err
	}
	if err := s.requireCompanyOwner(ctx, job.CompanyID, userID); err != nil {
		return err
	}

	if err := s.jobs.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
		return fmt.Errorf("updating application status: %w", err)
	}
	return nil
}

func (s *jobService) requireCompanyOwner(ctx context.Context, companyID, userID int64) error {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("getting company: %w", err)
	}
	if company.OwnerID != userID {
		return ErrNotCompanyOwner
	}
	return nil
}

func (s *jobService) enqueueIndex(ctx context.Context, jobID int64, op string) {
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeIndex,
		Collection: search.CollectionJobPosts,
		IndexOp:    op,
		DocID:      strconv.FormatInt(jobID, 10),
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue index task", "error", err, "job_id", jobID)
	}
}
