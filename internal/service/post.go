package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/graph"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/store"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrNotAuthor      = errors.New("not the author")
	ErrNotGroupMember = errors.New("not a member of the group")
	ErrEmptyContent   = errors.New("content cannot be empty")
)

const defaultFeedLimit = 25

type CreatePostParams struct {
	Content  string
	MediaURL *string
	GroupID  *int64
	PageID   *int64
}

type PostService interface {
	Create(ctx context.Context, authorID int64, params CreatePostParams) (*model.Post, error)
	Get(ctx context.Context, postID int64) (*model.Post, error)
	Update(ctx context.Context, userID, postID int64, content string) (*model.Post, error)
	Delete(ctx context.Context, userID, postID int64, isAdmin bool) error

	// Feed returns newest-first posts by the users the viewer follows
	// (including the viewer's own) merged with posts from the viewer's
	// groups. The merge is id-keyed so overlapping sources never produce
	// duplicates.
	Feed(ctx context.Context, viewerID int64, before time.Time, limit int32) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Post, error)
	ListByGroup(ctx context.Context, groupID int64, limit int32) ([]model.Post, error)
	ListByPage(ctx context.Context, pageID int64, limit int32) ([]model.Post, error)

	SearchPosts(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

type postService struct {
	posts     store.PostStore
	groups    store.GroupStore
	graph     graph.Client
	publisher realtime.Publisher
	producer  queue.Producer
	search    search.Client
}

func NewPostService(posts store.PostStore, groups store.GroupStore, socialGraph graph.Client, publisher realtime.Publisher, producer queue.Producer, searchClient search.Client) PostService {
	return &postService{
		posts:     posts,
		groups:    groups,
		graph:     socialGraph,
		publisher: publisher,
		producer:  producer,
		search:    searchClient,
	}
}

func (s *postService) Create(ctx context.Context, authorID int64, params CreatePostParams) (*model.Post, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.post",
		UserID:    &authorID,
	})

	if strings.TrimSpace(params.Content) == "" && params.MediaURL == nil {
		return nil, ErrEmptyContent
	}

	if params.GroupID != nil {
		member, err := s.groups.IsMember(ctx, *params.GroupID, authorID)
		if err != nil {
			return nil, fmt.Errorf("checking group membership: %w", err)
		}
		if !member {
			return nil, ErrNotGroupMember
		}
	}

	post := &model.Post{
		ID:       id.New(),
		AuthorID: authorID,
		GroupID:  params.GroupID,
		PageID:   params.PageID,
		Content:  params.Content,
		MediaURL: params.MediaURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	if err := s.publisher.Publish(ctx, realtime.PostsInsert(authorID), post); err != nil {
		slog.WarnContext(ctx, "failed to publish post event", "error", err)
	}
	s.enqueueIndex(ctx, post.ID, queue.IndexOpUpsert)

	if post.GroupID != nil {
		s.notifyGroupMembers(ctx, post)
	}

	slog.InfoContext(ctx, "post created", "post_id", post.ID)
	return post, nil
}

func (s *postService) Get(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, userID, postID int64, content string) (*model.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	post.Content = content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.enqueueIndex(ctx, post.ID, queue.IndexOpUpsert)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, userID, postID int64, isAdmin bool) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !isAdmin {
		return ErrNotAuthor
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.enqueueIndex(ctx, postID, queue.IndexOpDelete)
	return nil
}

func (s *postService) Feed(ctx context.Context, viewerID int64, before time.Time, limit int32) ([]model.Post, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.post",
		UserID:    &viewerID,
	})

	if limit <= 0 || limit > 100 {
		limit = defaultFeedLimit
	}
	if before.IsZero() {
		before = time.Now()
	}

	following, err := s.graph.Following(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}
	authors := append(following, viewerID)

	authored, err := s.posts.ListByAuthors(ctx, authors, before, limit)
	if err != nil {
		return nil, fmt.Errorf("listing feed posts: %w", err)
	}

	// A group post by a followed author shows up in both sources; the
	// id-keyed timeline collapses the overlap and restores a single
	// newest-first order across them.
	timeline := realtime.NewTimeline()
	byID := make(map[int64]model.Post, len(authored))
	collect := func(posts []model.Post) {
		for _, p := range posts {
			timeline.Upsert(realtime.TimelineEntry{ID: p.ID, CreatedAt: p.CreatedAt})
			byID[p.ID] = p
		}
	}
	collect(authored)

	memberships, err := s.groups.ListByUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("listing viewer groups: %w", err)
	}
	for _, g := range memberships {
		groupPosts, err := s.posts.ListByGroup(ctx, g.ID, limit)
		if err != nil {
			return nil, fmt.Errorf("listing posts for group %d: %w", g.ID, err)
		}
		collect(groupPosts)
	}

	merged := timeline.Before(before, int(limit))
	feed := make([]model.Post, 0, len(merged))
	for _, entry := range merged {
		feed = append(feed, byID[entry.ID])
	}
	return feed, nil
}

func (s *postService) ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultFeedLimit
	}
	return s.posts.ListByAuthor(ctx, authorID, limit)
}

func (s *postService) ListByGroup(ctx context.Context, groupID int64, limit int32) ([]model.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultFeedLimit
	}
	return s.posts.ListByGroup(ctx, groupID, limit)
}

func (s *postService) ListByPage(ctx context.Context, pageID int64, limit int32) ([]model.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultFeedLimit
	}
	return s.posts.ListByPage(ctx, pageID, limit)
}

func (s *postService) SearchPosts(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	return s.search.Search(ctx, search.CollectionPosts, query, limit)
}

func (s *postService) notifyGroupMembers(ctx context.Context, post *model.Post) {
	members, err := s.groups.ListMembers(ctx, *post.GroupID)
	if err != nil {
		slog.WarnContext(ctx, "failed to list group members for notification", "error", err)
		return
	}
	for _, m := range members {
		if m.UserID == post.AuthorID {
			continue
		}
		memberID := m.UserID
		if err := s.producer.Enqueue(ctx, queue.Task{
			TaskType:   queue.TaskTypeNotify,
			UserID:     &memberID,
			ActorID:    &post.AuthorID,
			Kind:       model.NotifyGroupPost,
			EntityType: "post",
			EntityID:   &post.ID,
		}); err != nil {
			slog.WarnContext(ctx, "failed to enqueue group notification", "error", err)
		}
	}
}

func (s *postService) enqueueIndex(ctx context.Context, postID int64, op string) {
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeIndex,
		Collection: search.CollectionPosts,
		IndexOp:    op,
		DocID:      strconv.FormatInt(postID, 10),
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue index task", "error", err, "post_id", postID)
	}
}
