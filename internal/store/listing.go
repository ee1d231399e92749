package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type listingStore struct {
	q db.Querier
}

func newListingStore(q db.Querier) ListingStore {
	return &listingStore{q: q}
}

const listingColumns = `id, seller_id, title, description, price_cents, currency, category, media_url, status, created_at`

func (s *listingStore) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	row := s.q.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	return scanListing(row)
}

func (s *listingStore) Create(ctx context.Context, listing *model.Listing) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO listings (id, seller_id, title, description, price_cents, currency, category, media_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+listingColumns,
		listing.ID, listing.SellerID, listing.Title, listing.Description, listing.PriceCents,
		listing.Currency, listing.Category, listing.MediaURL, listing.Status)
	created, err := scanListing(row)
	if err != nil {
		return err
	}
	*listing = *created
	return nil
}

func (s *listingStore) Update(ctx context.Context, listing *model.Listing) error {
	row := s.q.QueryRow(ctx, `
		UPDATE listings SET title = $2, description = $3, price_cents = $4, category = $5, media_url = $6
		WHERE id = $1
		RETURNING `+listingColumns,
		listing.ID, listing.Title, listing.Description, listing.PriceCents, listing.Category, listing.MediaURL)
	updated, err := scanListing(row)
	if err != nil {
		return err
	}
	*listing = *updated
	return nil
}

func (s *listingStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := s.q.Exec(ctx, `UPDATE listings SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (s *listingStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	return err
}

func (s *listingStore) List(ctx context.Context, category string, limit int32) ([]model.Listing, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE status = 'active' AND ($1 = '' OR category = $1)
		ORDER BY created_at DESC
		LIMIT $2`, category, limit)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func (s *listingStore) ListBySeller(ctx context.Context, sellerID int64) ([]model.Listing, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var l model.Listing
	err := row.Scan(&l.ID, &l.SellerID, &l.Title, &l.Description, &l.PriceCents, &l.Currency, &l.Category, &l.MediaURL, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]model.Listing, error) {
	defer rows.Close()
	var listings []model.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}
