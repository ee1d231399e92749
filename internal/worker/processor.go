package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/store"
)

// Processor executes one background task.
type Processor interface {
	Process(ctx context.Context, task queue.Task) error
}

// StoreProvider is the slice of the store layer the processor needs.
type StoreProvider interface {
	Users() store.UserStore
	Posts() store.PostStore
	Jobs() store.JobStore
	Listings() store.ListingStore
	Notifications() store.NotificationStore
}

type processor struct {
	stores    StoreProvider
	search    search.Client
	publisher realtime.Publisher
}

func NewProcessor(stores StoreProvider, searchClient search.Client, publisher realtime.Publisher) Processor {
	return &processor{
		stores:    stores,
		search:    searchClient,
		publisher: publisher,
	}
}

func (p *processor) Process(ctx context.Context, task queue.Task) error {
	taskType := string(task.TaskType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.worker.processor",
		TaskType:  &taskType,
	})

	switch task.TaskType {
	case queue.TaskTypeNotify:
		return p.processNotify(ctx, task)
	case queue.TaskTypeIndex:
		return p.processIndex(ctx, task)
	default:
		return fmt.Errorf("unknown task type %q", task.TaskType)
	}
}

func (p *processor) processNotify(ctx context.Context, task queue.Task) error {
	// Fail fast on malformed tasks; a panic here would burn retries on a
	// payload that can never succeed.
	if task.UserID == nil || task.ActorID == nil {
		return fmt.Errorf("notify task missing user_id or actor_id (kind %q)", task.Kind)
	}

	n := &model.Notification{
		ID:         id.New(),
		UserID:     *task.UserID,
		ActorID:    *task.ActorID,
		Kind:       task.Kind,
		EntityType: task.EntityType,
	}
	if task.EntityID != nil {
		n.EntityID = *task.EntityID
	}

	if err := p.stores.Notifications().Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	channel := realtime.NotificationsInsert(n.UserID)
	if err := p.publisher.Publish(ctx, channel, n); err != nil {
		// The row is durable; delivery is best-effort.
		slog.ErrorContext(ctx, "failed to publish notification", "error", err, "channel", channel)
	}

	slog.InfoContext(ctx, "notification created",
		"user_id", n.UserID,
		"kind", n.Kind)
	return nil
}

func (p *processor) processIndex(ctx context.Context, task queue.Task) error {
	if p.search == nil {
		slog.WarnContext(ctx, "search disabled, skipping index task", "collection", task.Collection)
		return nil
	}

	if task.IndexOp == queue.IndexOpDelete {
		if err := p.search.Delete(ctx, task.Collection, task.DocID); err != nil {
			return fmt.Errorf("delete search document: %w", err)
		}
		return nil
	}

	entityID, err := strconv.ParseInt(task.DocID, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing doc_id: %w", err)
	}

	doc, err := p.buildDocument(ctx, task.Collection, entityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between enqueue and processing; drop the stale doc.
			if delErr := p.search.Delete(ctx, task.Collection, task.DocID); delErr != nil {
				slog.WarnContext(ctx, "failed to delete stale search document", "error", delErr)
			}
			return nil
		}
		return err
	}

	if err := p.search.Upsert(ctx, task.Collection, doc); err != nil {
		return fmt.Errorf("upsert search document: %w", err)
	}

	slog.DebugContext(ctx, "search document indexed",
		"collection", task.Collection,
		"doc_id", task.DocID)
	return nil
}

func (p *processor) buildDocument(ctx context.Context, collection string, entityID int64) (search.Document, error) {
	switch collection {
	case search.CollectionPosts:
		post, err := p.stores.Posts().GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return search.Document{
			"id":         strconv.FormatInt(post.ID, 10),
			"body":       post.Content,
			"author_id":  post.AuthorID,
			"created_at": post.CreatedAt.Unix(),
		}, nil
	case search.CollectionPeople:
		user, err := p.stores.Users().GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		doc := search.Document{
			"id":   strconv.FormatInt(user.ID, 10),
			"name": user.Name,
		}
		if user.Headline != nil {
			doc["headline"] = *user.Headline
		}
		if user.Location != nil {
			doc["location"] = *user.Location
		}
		return doc, nil
	case search.CollectionJobPosts:
		job, err := p.stores.Jobs().GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return search.Document{
			"id":          strconv.FormatInt(job.ID, 10),
			"title":       job.Title,
			"description": job.Description,
			"location":    job.Location,
			"created_at":  job.CreatedAt.Unix(),
		}, nil
	case search.CollectionListings:
		listing, err := p.stores.Listings().GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return search.Document{
			"id":          strconv.FormatInt(listing.ID, 10),
			"title":       listing.Title,
			"description": listing.Description,
			"category":    listing.Category,
			"created_at":  listing.CreatedAt.Unix(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown search collection %q", collection)
	}
}
