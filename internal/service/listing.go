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
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/storage"
	"loopline.app/server/internal/store"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrNotSeller        = errors.New("not the seller")
	ErrBadListingStatus = errors.New("unknown listing status")
	ErrBadPrice         = errors.New("price must be positive")
)

var listingStatuses = map[string]bool{
	model.ListingActive: true,
	model.ListingSold:   true,
	model.ListingClosed: true,
}

type CreateListingParams struct {
	Title       string
	Description string
	PriceCents  int64
	Currency    string
	Category    string
}

type ListingService interface {
	Create(ctx context.Context, sellerID int64, params CreateListingParams) (*model.Listing, error)
	Get(ctx context.Context, listingID int64) (*model.Listing, error)
	Update(ctx context.Context, sellerID, listingID int64, params CreateListingParams) (*model.Listing, error)
	UploadMedia(ctx context.Context, sellerID, listingID int64, filename string, r io.Reader) (*model.Listing, error)
	SetStatus(ctx context.Context, sellerID, listingID int64, status string) error
	Delete(ctx context.Context, userID, listingID int64, isAdmin bool) error
	List(ctx context.Context, category string, limit int32) ([]model.Listing, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Listing, error)
	SearchListings(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

type listingService struct {
	listings store.ListingStore
	objects  storage.Store
	producer queue.Producer
	search   search.Client
}

func NewListingService(listings store.ListingStore, objects storage.Store, producer queue.Producer, searchClient search.Client) ListingService {
	return &listingService{
		listings: listings,
		objects:  objects,
		producer: producer,
		search:   searchClient,
	}
}

func (s *listingService) Create(ctx context.Context, sellerID int64, params CreateListingParams) (*model.Listing, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.listing",
		UserID:    &sellerID,
	})

	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrEmptyContent
	}
	if params.PriceCents <= 0 {
		return nil, ErrBadPrice
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}

	listing := &model.Listing{
		ID:          id.New(),
		SellerID:    sellerID,
		Title:       params.Title,
		Description: params.Description,
		PriceCents:  params.PriceCents,
		Currency:    currency,
		Category:    params.Category,
		Status:      model.ListingActive,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	s.enqueueIndex(ctx, listing.ID, queue.IndexOpUpsert)

	slog.InfoContext(ctx, "listing created", "listing_id", listing.ID)
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, listingID int64) (*model.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("getting listing: %w", err)
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, sellerID, listingID int64, params CreateListingParams) (*model.Listing, error) {
	listing, err := s.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, ErrNotSeller
	}

	if strings.TrimSpace(params.Title) != "" {
		listing.Title = params.Title
	}
	if params.Description != "" {
		listing.Description = params.Description
	}
	if params.PriceCents > 0 {
		listing.PriceCents = params.PriceCents
	}
	if params.Category != "" {
		listing.Category = params.Category
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("updating listing: %w", err)
	}

	s.enqueueIndex(ctx, listing.ID, queue.IndexOpUpsert)
	return listing, nil
}

func (s *listingService) UploadMedia(ctx context.Context, sellerID, listingID int64, filename string, r io.Reader) (*model.Listing, error) {
	listing, err := s.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, ErrNotSeller
	}

	name := strconv.FormatInt(listingID, 10) + strings.ToLower(path.Ext(filename))
	url, err := s.objects.Save(ctx, storage.BucketListings, name, r)
	if err != nil {
		return nil, fmt.Errorf("saving listing media: %w", err)
	}

	listing.MediaURL = &url
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("updating listing: %w", err)
	}
	return listing, nil
}

func (s *listingService) SetStatus(ctx context.Context, sellerID, listingID int64, status string) error {
	if !listingStatuses[status] {
		return ErrBadListingStatus
	}

	listing, err := s.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return ErrNotSeller
	}

	if err := s.listings.UpdateStatus(ctx, listingID, status); err != nil {
		return fmt.Errorf("updating listing status: %w", err)
	}

	// Only active listings stay searchable.
	if status == model.ListingActive {
		s.enqueueIndex(ctx, listingID, queue.IndexOpUpsert)
	} else {
		s.enqueueIndex(ctx, listingID, queue.IndexOpDelete)
	}
	return nil
}

func (s *listingService) Delete(ctx context.Context, userID, listingID int64, isAdmin bool) error {
	listing, err := s.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != userID && !isAdmin {
		return ErrNotSeller
	}

	if err := s.listings.Delete(ctx, listingID); err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	s.enqueueIndex(ctx, listingID, queue.IndexOpDelete)
	return nil
}

func (s *listingService) List(ctx context.Context, category string, limit int32) ([]model.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.listings.List(ctx, category, limit)
}

func (s *listingService) ListBySeller(ctx context.Context, sellerID int64) ([]model.Listing, error) {
	return s.listings.ListBySeller(ctx, sellerID)
}

func (s *listingService) SearchListings(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	return s.search.Search(ctx, search.CollectionListings, query, limit)
}

func (s *listingService) enqueueIndex(ctx context.Context, listingID int64, op string) {
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeIndex,
		Collection: search.CollectionListings,
		IndexOp:    op,
		DocID:      strconv.FormatInt(listingID, 10),
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue index task", "error", err, "listing_id", listingID)
	}
}
