package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/store"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrBadReactionKind = errors.New("unknown reaction kind")
)

var reactionKinds = map[string]bool{
	model.ReactionLike:      true,
	model.ReactionLove:      true,
	model.ReactionCelebrate: true,
	model.ReactionInsight:   true,
}

// EngagementService covers comments and reactions on feed posts.
type EngagementService interface {
	AddComment(ctx context.Context, authorID, postID int64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64, isAdmin bool) error
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)

	React(ctx context.Context, userID, postID int64, kind string) (*model.Reaction, error)
	RemoveReaction(ctx context.Context, userID, postID int64) error
	ListReactions(ctx context.Context, postID int64) ([]model.Reaction, error)
	CountReactions(ctx context.Context, postID int64) (int64, error)
}

type engagementService struct {
	comments  store.CommentStore
	reactions store.ReactionStore
	posts     store.PostStore
	producer  queue.Producer
}

func NewEngagementService(comments store.CommentStore, reactions store.ReactionStore, posts store.PostStore, producer queue.Producer) EngagementService {
	return &engagementService{
		comments:  comments,
		reactions: reactions,
		posts:     posts,
		producer:  producer,
	}
}

func (s *engagementService) AddComment(ctx context.Context, authorID, postID int64, content string) (*model.Comment, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.engagement",
		UserID:    &authorID,
		PostID:    &postID,
	})

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:       id.New(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	if post.AuthorID != authorID {
		s.enqueueNotify(ctx, post.AuthorID, authorID, model.NotifyPostComment, postID)
	}

	slog.InfoContext(ctx, "comment created", "comment_id", comment.ID)
	return comment, nil
}

func (s *engagementService) DeleteComment(ctx context.Context, userID, commentID int64, isAdmin bool) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("getting comment: %w", err)
	}
	if comment.AuthorID != userID && !isAdmin {
		return ErrNotAuthor
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func (s *engagementService) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func (s *engagementService) React(ctx context.Context, userID, postID int64, kind string) (*model.Reaction, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.engagement",
		UserID:    &userID,
		PostID:    &postID,
	})

	if !reactionKinds[kind] {
		return nil, ErrBadReactionKind
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	reaction := &model.Reaction{
		ID:     id.New(),
		PostID: postID,
		UserID: userID,
		Kind:   kind,
	}
	if err := s.reactions.Upsert(ctx, reaction); err != nil {
		return nil, fmt.Errorf("upserting reaction: %w", err)
	}

	if post.AuthorID != userID {
		s.enqueueNotify(ctx, post.AuthorID, userID, model.NotifyPostReaction, postID)
	}
	return reaction, nil
}

func (s *engagementService) RemoveReaction(ctx context.Context, userID, postID int64) error {
	if err := s.reactions.Delete(ctx, postID, userID); err != nil {
		return fmt.Errorf("deleting reaction: %w", err)
	}
	return nil
}

func (s *engagementService) ListReactions(ctx context.Context, postID int64) ([]model.Reaction, error) {
	return s.reactions.ListByPost(ctx, postID)
}

func (s *engagementService) CountReactions(ctx context.Context, postID int64) (int64, error) {
	return s.reactions.CountByPost(ctx, postID)
}

func (s *engagementService) getPost(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}

func (s *engagementService) enqueueNotify(ctx context.Context, userID, actorID int64, kind string, postID int64) {
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeNotify,
		UserID:     &userID,
		ActorID:    &actorID,
		Kind:       kind,
		EntityType: "post",
		EntityID:   &postID,
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue notification", "error", err, "kind", kind)
	}
}
