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
	ErrCompanyNotFound = errors.New("company not found")
	ErrNotCompanyOwner = errors.New("not the company owner")
)

type UpdateCompanyParams struct {
	Name     *string
	Industry *string
	Website  *string
	About    *string
	LogoURL  *string
}

type CompanyService interface {
	Create(ctx context.Context, ownerID int64, name, industry, about string) (*model.Company, error)
	Get(ctx context.Context, companyID int64) (*model.Company, error)
	GetBySlug(ctx context.Context, slug string) (*model.Company, error)
	Update(ctx context.Context, userID, companyID int64, params UpdateCompanyParams) (*model.Company, error)
	Delete(ctx context.Context, userID, companyID int64, isAdmin bool) error
	List(ctx context.Context, limit int32) ([]model.Company, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Company, error)
}

type companyService struct {
	companies store.CompanyStore
}

func NewCompanyService(companies store.CompanyStore) CompanyService {
	return &companyService{companies: companies}
}

func (s *companyService) Create(ctx context.Context, ownerID int64, name, industry, about string) (*model.Company, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.company",
		UserID:    &ownerID,
	})

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyContent
	}

	company := &model.Company{
		ID:       id.New(),
		OwnerID:  ownerID,
		Name:     name,
		Industry: industry,
		About:    about,
	}

	slug, err := common.Slugify(name, strconv.FormatInt(company.ID, 10))
	if err != nil {
		return nil, fmt.Errorf("building slug: %w", err)
	}
	company.Slug = slug

	if _, err := s.companies.GetBySlug(ctx, slug); err == nil {
		company.Slug = slug + "-" + strconv.FormatInt(company.ID, 10)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking slug: %w", err)
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	slog.InfoContext(ctx, "company created", "company_id", company.ID, "slug", company.Slug)
	return company, nil
}

func (s *companyService) Get(ctx context.Context, companyID int64) (*model.Company, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("getting company: %w", err)
	}
	return company, nil
}

func (s *companyService) GetBySlug(ctx context.Context, slug string) (*model.Company, error) {
	company, err := s.companies.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("getting company: %w", err)
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, userID, companyID int64, params UpdateCompanyParams) (*model.Company, error) {
	company, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != userID {
		return nil, ErrNotCompanyOwner
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		company.Name = strings.TrimSpace(*params.Name)
	}
	if params.Industry != nil {
		company.Industry = *params.Industry
	}
	if params.Website != nil {
		company.Website = params.Website
	}
	if params.About != nil {
		company.About = *params.About
	}
	if params.LogoURL != nil {
		company.LogoURL = params.LogoURL
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("updating company: %w", err)
	}
	return company, nil
}

func (s *companyService) Delete(ctx context.Context, userID, companyID int64, isAdmin bool) error {
	company, err := s.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if company.OwnerID != userID && !isAdmin {
		return ErrNotCompanyOwner
	}
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	return nil
}

func (s *companyService) List(ctx context.Context, limit int32) ([]model.Company, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.companies.List(ctx, limit)
}

func (s *companyService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Company, error) {
	return s.companies.ListByOwner(ctx, ownerID)
}
