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

var ErrReelNotFound = errors.New("reel not found")

type ReelService interface {
	// Create stores the uploaded video and the reel row in one call; a reel
	// without a video is meaningless.
	Create(ctx context.Context, authorID int64, caption, filename string, video io.Reader) (*model.Reel, error)
	Get(ctx context.Context, reelID int64) (*model.Reel, error)
	Delete(ctx context.Context, userID, reelID int64, isAdmin bool) error
	ListRecent(ctx context.Context, limit int32) ([]model.Reel, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Reel, error)
}

type reelService struct {
	reels   store.ReelStore
	objects storage.Store
}

func NewReelService(reels store.ReelStore, objects storage.Store) ReelService {
	return &reelService{reels: reels, objects: objects}
}

func (s *reelService) Create(ctx context.Context, authorID int64, caption, filename string, video io.Reader) (*model.Reel, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.reel",
		UserID:    &authorID,
	})

	reelID := id.New()
	name := strconv.FormatInt(reelID, 10) + strings.ToLower(path.Ext(filename))
	url, err := s.objects.Save(ctx, storage.BucketReels, name, video)
	if err != nil {
		return nil, fmt.Errorf("saving reel video: %w", err)
	}

	reel := &model.Reel{
		ID:       reelID,
		AuthorID: authorID,
		Caption:  caption,
		VideoURL: url,
	}
	if err := s.reels.Create(ctx, reel); err != nil {
		// The row failed; don't leave the video orphaned.
		if rmErr := s.objects.Remove(ctx, storage.BucketReels, name); rmErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned reel video", "error", rmErr)
		}
		return nil, fmt.Errorf("creating reel: %w", err)
	}

	slog.InfoContext(ctx, "reel created", "reel_id", reel.ID)
	return reel, nil
}

func (s *reelService) Get(ctx context.Context, reelID int64) (*model.Reel, error) {
	reel, err := s.reels.GetByID(ctx, reelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReelNotFound
		}
		return nil, fmt.Errorf("getting reel: %w", err)
	}
	return reel, nil
}

func (s *reelService) Delete(ctx context.Context, userID, reelID int64, isAdmin bool) error {
	reel, err := s.Get(ctx, reelID)
	if err != nil {
		return err
	}
	if reel.AuthorID != userID && !isAdmin {
		return ErrNotAuthor
	}

	if err := s.reels.Delete(ctx, reelID); err != nil {
		return fmt.Errorf("deleting reel: %w", err)
	}

	name := path.Base(reel.VideoURL)
	if err := s.objects.Remove(ctx, storage.BucketReels, name); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		slog.WarnContext(ctx, "failed to remove reel video", "error", err, "reel_id", reelID)
	}
	return nil
}

func (s *reelService) ListRecent(ctx context.Context, limit int32) ([]model.Reel, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.reels.ListRecent(ctx, limit)
}

func (s *reelService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Reel, error) {
	return s.reels.ListByAuthor(ctx, authorID)
}
