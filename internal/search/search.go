package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"loopline.app/server/core/config"
)

// Searchable collections. Each entity type the app surfaces in search
// gets its own collection with its own query_by fields.
const (
	CollectionPosts    = "posts"
	CollectionPeople   = "people"
	CollectionJobPosts = "job_posts"
	CollectionListings = "listings"
)

var queryBy = map[string]string{
	CollectionPosts:    "body",
	CollectionPeople:   "name,headline,location",
	CollectionJobPosts: "title,description,location",
	CollectionListings: "title,description,category",
}

type Document map[string]any

type Hit struct {
	ID       string
	Document map[string]any
}

type Client interface {
	EnsureCollections(ctx context.Context) error
	Upsert(ctx context.Context, collection string, doc Document) error
	Delete(ctx context.Context, collection, docID string) error
	Search(ctx context.Context, collection, query string, limit int) ([]Hit, error)
}

type client struct {
	ts *typesense.Client
}

func New(cfg config.TypesenseConfig) (Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("typesense config: URL and API key are required")
	}

	ts := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &client{ts: ts}, nil
}

func (c *client) EnsureCollections(ctx context.Context) error {
	schemas := []*api.CollectionSchema{
		{
			Name: CollectionPosts,
			Fields: []api.Field{
				{Name: "body", Type: "string"},
				{Name: "author_id", Type: "int64"},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
		{
			Name: CollectionPeople,
			Fields: []api.Field{
				{Name: "name", Type: "string"},
				{Name: "headline", Type: "string", Optional: pointer.True()},
				{Name: "location", Type: "string", Optional: pointer.True()},
			},
		},
		{
			Name: CollectionJobPosts,
			Fields: []api.Field{
				{Name: "title", Type: "string"},
				{Name: "description", Type: "string"},
				{Name: "location", Type: "string", Optional: pointer.True()},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
		{
			Name: CollectionListings,
			Fields: []api.Field{
				{Name: "title", Type: "string"},
				{Name: "description", Type: "string"},
				{Name: "category", Type: "string", Optional: pointer.True()},
				{Name: "created_at", Type: "int64"},
			},
			DefaultSortingField: pointer.String("created_at"),
		},
	}

	for _, schema := range schemas {
		if _, err := c.ts.Collection(schema.Name).Retrieve(ctx); err == nil {
			continue
		}
		if _, err := c.ts.Collections().Create(ctx, schema); err != nil {
			return fmt.Errorf("create collection %s: %w", schema.Name, err)
		}
		slog.InfoContext(ctx, "typesense collection created", "collection", schema.Name)
	}

	return nil
}

func (c *client) Upsert(ctx context.Context, collection string, doc Document) error {
	start := time.Now()

	if _, err := c.ts.Collection(collection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
		return fmt.Errorf("upsert document into %s: %w", collection, err)
	}

	slog.DebugContext(ctx, "search document upserted",
		"collection", collection,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *client) Delete(ctx context.Context, collection, docID string) error {
	if _, err := c.ts.Collection(collection).Document(docID).Delete(ctx); err != nil {
		return fmt.Errorf("delete document %s from %s: %w", docID, collection, err)
	}
	return nil
}

func (c *client) Search(ctx context.Context, collection, query string, limit int) ([]Hit, error) {
	fields, ok := queryBy[collection]
	if !ok {
		return nil, fmt.Errorf("unknown search collection %q", collection)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	start := time.Now()

	result, err := c.ts.Collection(collection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String(fields),
		PerPage: pointer.Int(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	var hits []Hit
	if result.Hits != nil {
		for _, h := range *result.Hits {
			if h.Document == nil {
				continue
			}
			doc := *h.Document
			id, _ := doc["id"].(string)
			hits = append(hits, Hit{ID: id, Document: doc})
		}
	}

	slog.DebugContext(ctx, "search completed",
		"collection", collection,
		"hits", len(hits),
		"duration_ms", time.Since(start).Milliseconds())

	return hits, nil
}
