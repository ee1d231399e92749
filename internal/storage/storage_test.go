package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loopline.app/server/core/config"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewLocalStore(config.StorageConfig{
		RootDir:       t.TempDir(),
		PublicBaseURL: "http://localhost:8080",
	})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestLocalStore_SaveAndServe(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Save(context.Background(), BucketAvatars, "u1.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "http://localhost:8080/media/avatars/u1.png" {
		t.Errorf("unexpected public URL: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(store.RootDir(), BucketAvatars, "u1.png"))
	if err != nil {
		t.Fatalf("read saved object: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("object content = %q", data)
	}
}

func TestLocalStore_UnknownBucket(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), "secrets", "x", strings.NewReader("x"))
	if !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("expected ErrUnknownBucket, got %v", err)
	}
}

func TestLocalStore_PathTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"../escape", "a/b", `a\b`, "..", ""} {
		if _, err := store.Save(context.Background(), BucketPosts, name, strings.NewReader("x")); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("Save(%q): expected ErrPathTraversal, got %v", name, err)
		}
	}
}

func TestLocalStore_Remove(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(context.Background(), BucketReels, "r1.mp4", strings.NewReader("video")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove(context.Background(), BucketReels, "r1.mp4"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(context.Background(), BucketReels, "r1.mp4"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}
