package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loopline.app/server/core/config"
)

const (
	// MaxUploadSize caps any single media upload.
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
)

// Buckets the app writes media into. Uploads to any other bucket name
// are rejected.
const (
	BucketPosts    = "posts"
	BucketAvatars  = "avatars"
	BucketReels    = "reels"
	BucketGroups   = "groups"
	BucketMessages = "messages"
	BucketResumes  = "resumes"
	BucketListings = "listings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrUnknownBucket  = errors.New("unknown bucket")
	ErrPathTraversal  = errors.New("path traversal not allowed")
	ErrTooLarge       = errors.New("object exceeds maximum size")
)

var buckets = map[string]bool{
	BucketPosts:    true,
	BucketAvatars:  true,
	BucketReels:    true,
	BucketGroups:   true,
	BucketMessages: true,
	BucketResumes:  true,
	BucketListings: true,
}

// Store is disk-backed object storage with stable public URLs. The
// media routes serve the root directory directly.
type Store interface {
	// Save streams an object into a bucket and returns its public URL.
	Save(ctx context.Context, bucket, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, bucket, name string) error
	PublicURL(bucket, name string) string
	RootDir() string
}

type localStore struct {
	rootDir string
	baseURL string
}

func NewLocalStore(cfg config.StorageConfig) (Store, error) {
	if cfg.RootDir == "" {
		return nil, fmt.Errorf("storage root directory is required")
	}

	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root directory: %w", err)
	}

	for bucket := range buckets {
		if err := os.MkdirAll(filepath.Join(cfg.RootDir, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("creating bucket directory %s: %w", bucket, err)
		}
	}

	return &localStore{
		rootDir: cfg.RootDir,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *localStore) RootDir() string {
	return s.rootDir
}

func (s *localStore) Save(ctx context.Context, bucket, name string, r io.Reader) (string, error) {
	if err := validate(bucket, name); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.rootDir, bucket, name)

	// Atomic write: temp file in the same directory, then rename.
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp object: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, io.LimitReader(r, MaxUploadSize+1))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing object: %w", err)
	}
	if written > MaxUploadSize {
		os.Remove(tmpPath)
		return "", ErrTooLarge
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming object: %w", err)
	}

	return s.PublicURL(bucket, name), nil
}

func (s *localStore) Remove(ctx context.Context, bucket, name string) error {
	if err := validate(bucket, name); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.rootDir, bucket, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

func (s *localStore) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s/media/%s/%s", s.baseURL, bucket, name)
}

func validate(bucket, name string) error {
	if !buckets[bucket] {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}
	if name == "" {
		return ErrPathTraversal
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return ErrPathTraversal
	}
	if filepath.Clean(name) != name {
		return ErrPathTraversal
	}
	return nil
}
