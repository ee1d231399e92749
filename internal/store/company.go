package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type companyStore struct {
	q db.Querier
}

func newCompanyStore(q db.Querier) CompanyStore {
	return &companyStore{q: q}
}

const companyColumns = `id, owner_id, name, slug, industry, website, about, logo_url, created_at`

func (s *companyStore) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	row := s.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (s *companyStore) GetBySlug(ctx context.Context, slug string) (*model.Company, error) {
	row := s.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug)
	return scanCompany(row)
}

func (s *companyStore) Create(ctx context.Context, company *model.Company) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO companies (id, owner_id, name, slug, industry, website, about, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+companyColumns,
		company.ID, company.OwnerID, company.Name, company.Slug, company.Industry, company.Website, company.About, company.LogoURL)
	created, err := scanCompany(row)
	if err != nil {
		return err
	}
	*company = *created
	return nil
}

func (s *companyStore) Update(ctx context.Context, company *model.Company) error {
	row := s.q.QueryRow(ctx, `
		UPDATE companies SET name = $2, industry = $3, website = $4, about = $5, logo_url = $6
		WHERE id = $1
		RETURNING `+companyColumns,
		company.ID, company.Name, company.Industry, company.Website, company.About, company.LogoURL)
	updated, err := scanCompany(row)
	if err != nil {
		return err
	}
	*company = *updated
	return nil
}

func (s *companyStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	return err
}

func (s *companyStore) List(ctx context.Context, limit int32) ([]model.Company, error) {
	rows, err := s.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectCompanies(rows)
}

func (s *companyStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Company, error) {
	rows, err := s.q.Query(ctx, `SELECT `+companyColumns+` FROM companies WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectCompanies(rows)
}

func scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Slug, &c.Industry, &c.Website, &c.About, &c.LogoURL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCompanies(rows pgx.Rows) ([]model.Company, error) {
	defer rows.Close()
	var companies []model.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *company)
	}
	return companies, rows.Err()
}
