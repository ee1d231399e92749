package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"loopline.app/server/common"
	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/store"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrNotPageOwner = errors.New("not the page owner")
)

type UpdatePageParams struct {
	Name        *string
	Category    *string
	Description *string
	AvatarURL   *string
}

type PageService interface {
	Create(ctx context.Context, ownerID int64, name, category, description string) (*model.Page, error)
	Get(ctx context.Context, pageID int64) (*model.Page, error)
	GetBySlug(ctx context.Context, slug string) (*model.Page, error)
	Update(ctx context.Context, userID, pageID int64, params UpdatePageParams) (*model.Page, error)
	Delete(ctx context.Context, userID, pageID int64, isAdmin bool) error
	List(ctx context.Context, limit int32) ([]model.Page, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Page, error)
}

type pageService struct {
	pages store.PageStore
}

func NewPageService(pages store.PageStore) PageService {
	return &pageService{pages: pages}
}

func (s *pageService) Create(ctx context.Context, ownerID int64, name, category, description string) (*model.Page, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.page",
		UserID:    &ownerID,
	})

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyContent
	}

	page := &model.Page{
		ID:          id.New(),
		OwnerID:     ownerID,
		Name:        name,
		Category:    category,
		Description: description,
	}

	slug, err := common.Slugify(name, strconv.FormatInt(page.ID, 10))
	if err != nil {
		return nil, fmt.Errorf("building slug: %w", err)
	}
	page.Slug = slug

	if _, err := s.pages.GetBySlug(ctx, slug); err == nil {
		page.Slug = slug + "-" + strconv.FormatInt(page.ID, 10)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking slug: %w", err)
	}

	if err := s.pages.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	slog.InfoContext(ctx, "page created", "page_id", page.ID, "slug", page.Slug)
	return page, nil
}

func (s *pageService) Get(ctx context.Context, pageID int64) (*model.Page, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("getting page: %w", err)
	}
	return page, nil
}

func (s *pageService) GetBySlug(ctx context.Context, slug string) (*model.Page, error) {
	page, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("getting page: %w", err)
	}
	return page, nil
}

func (s *pageService) Update(ctx context.Context, userID, pageID int64, params UpdatePageParams) (*model.Page, error) {
	page, err := s.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page.OwnerID != userID {
		return nil, ErrNotPageOwner
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		page.Name = strings.TrimSpace(*params.Name)
	}
	if params.Category != nil {
		page.Category = *params.Category
	}
	if params.Description != nil {
		page.Description = *params.Description
	}
	if params.AvatarURL != nil {
		page.AvatarURL = params.AvatarURL
	}

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("updating page: %w", err)
	}
	return page, nil
}

func (s *pageService) Delete(ctx context.Context, userID, pageID int64, isAdmin bool) error {
	page, err := s.Get(ctx, pageID)
	if err != nil {
		return err
	}
	if page.OwnerID != userID && !isAdmin {
		return ErrNotPageOwner
	}
	if err := s.pages.Delete(ctx, pageID); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	return nil
}

func (s *pageService) List(ctx context.Context, limit int32) ([]model.Page, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.pages.List(ctx, limit)
}

func (s *pageService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Page, error) {
	return s.pages.ListByOwner(ctx, ownerID)
}
