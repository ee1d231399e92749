package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/storage"
	"loopline.app/server/internal/store"
)

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrNotResumeOwner = errors.New("not the resume owner")
)

type ResumeService interface {
	Create(ctx context.Context, userID int64, title, summary string) (*model.Resume, error)
	Get(ctx context.Context, userID, resumeID int64) (*model.Resume, error)
	Update(ctx context.Context, userID, resumeID int64, title, summary string) (*model.Resume, error)
	UploadFile(ctx context.Context, userID, resumeID int64, filename string, r io.Reader) (*model.Resume, error)
	Delete(ctx context.Context, userID, resumeID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Resume, error)
}

type resumeService struct {
	resumes store.ResumeStore
	objects storage.Store
}

func NewResumeService(resumes store.ResumeStore, objects storage.Store) ResumeService {
	return &resumeService{resumes: resumes, objects: objects}
}

func (s *resumeService) Create(ctx context.Context, userID int64, title, summary string) (*model.Resume, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.resume",
		UserID:    &userID,
	})

	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyContent
	}

	resume := &model.Resume{
		ID:      id.New(),
		UserID:  userID,
		Title:   title,
		Summary: summary,
	}
	if err := s.resumes.Create(ctx, resume); err != nil {
		return nil, fmt.Errorf("creating resume: %w", err)
	}

	slog.InfoContext(ctx, "resume created", "resume_id", resume.ID)
	return resume, nil
}

func (s *resumeService) Get(ctx context.Context, userID, resumeID int64) (*model.Resume, error) {
	resume, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("getting resume: %w", err)
	}
	if resume.UserID != userID {
		return nil, ErrNotResumeOwner
	}
	return resume, nil
}

func (s *resumeService) Update(ctx context.Context, userID, resumeID int64, title, summary string) (*model.Resume, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) != "" {
		resume.Title = title
	}
	resume.Summary = summary

	if err := s.resumes.Update(ctx, resume); err != nil {
		return nil, fmt.Errorf("updating resume: %w", err)
	}
	return resume, nil
}

func (s *resumeService) UploadFile(ctx context.Context, userID, resumeID int64, filename string, r io.Reader) (*model.Resume, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	name := strconv.FormatInt(resumeID, 10) + strings.ToLower(path.Ext(filename))
	url, err := s.objects.Save(ctx, storage.BucketResumes, name, r)
	if err != nil {
		return nil, fmt.Errorf("saving resume file: %w", err)
	}

	resume.FileURL = &url
	if err := s.resumes.Update(ctx, resume); err != nil {
		return nil, fmt.Errorf("updating resume: %w", err)
	}
	return resume, nil
}

func (s *resumeService) Delete(ctx context.Context, userID, resumeID int64) error {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if err := s.resumes.Delete(ctx, resume.ID); err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	return nil
}

func (s *resumeService) ListByUser(ctx context.Context, userID int64) ([]model.Resume, error) {
	return s.resumes.ListByUser(ctx, userID)
}
