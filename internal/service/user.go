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

	"loopline.app/server/common/logger"
	"loopline.app/server/internal/graph"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/storage"
	"loopline.app/server/internal/store"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type UpdateProfileParams struct {
	Name     *string
	Headline *string
	Bio      *string
	Location *string
}

type UserService interface {
	Get(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*model.User, error)
	UploadAvatar(ctx context.Context, userID int64, filename string, r io.Reader) (*model.User, error)
	Delete(ctx context.Context, userID int64) error

	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	Followers(ctx context.Context, userID int64) ([]model.User, error)
	Following(ctx context.Context, userID int64) ([]model.User, error)
	Suggestions(ctx context.Context, userID int64, limit int) ([]model.User, error)

	SearchPeople(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

type userService struct {
	users    store.UserStore
	graph    graph.Client
	objects  storage.Store
	producer queue.Producer
	search   search.Client
}

func NewUserService(users store.UserStore, socialGraph graph.Client, objects storage.Store, producer queue.Producer, searchClient search.Client) UserService {
	return &userService{
		users:    users,
		graph:    socialGraph,
		objects:  objects,
		producer: producer,
		search:   searchClient,
	}
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*model.User, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.user",
		UserID:    &userID,
	})

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		user.Name = strings.TrimSpace(*params.Name)
	}
	if params.Headline != nil {
		user.Headline = params.Headline
	}
	if params.Bio != nil {
		user.Bio = params.Bio
	}
	if params.Location != nil {
		user.Location = params.Location
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.enqueueIndex(ctx, user.ID)

	slog.InfoContext(ctx, "profile updated")
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int64, filename string, r io.Reader) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := strconv.FormatInt(userID, 10) + strings.ToLower(path.Ext(filename))
	url, err := s.objects.Save(ctx, storage.BucketAvatars, name, r)
	if err != nil {
		return nil, fmt.Errorf("saving avatar: %w", err)
	}

	user.AvatarURL = &url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if err := s.graph.RemovePerson(ctx, userID); err != nil {
		slog.WarnContext(ctx, "failed to remove user from social graph", "error", err, "user_id", userID)
	}

	docID := strconv.FormatInt(userID, 10)
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeIndex,
		Collection: search.CollectionPeople,
		IndexOp:    queue.IndexOpDelete,
		DocID:      docID,
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue index delete", "error", err, "user_id", userID)
	}
	return nil
}

func (s *userService) Follow(ctx context.Context, followerID, followeeID int64) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.user",
		UserID:    &followerID,
	})

	if followerID == followeeID {
		return ErrSelfFollow
	}

	// The followee must exist; the graph alone doesn't know.
	if _, err := s.Get(ctx, followeeID); err != nil {
		return err
	}

	if err := s.graph.EnsurePerson(ctx, followerID); err != nil {
		return fmt.Errorf("ensuring follower vertex: %w", err)
	}
	if err := s.graph.EnsurePerson(ctx, followeeID); err != nil {
		return fmt.Errorf("ensuring followee vertex: %w", err)
	}
	if err := s.graph.Follow(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("following: %w", err)
	}

	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeNotify,
		UserID:     &followeeID,
		ActorID:    &followerID,
		Kind:       model.NotifyNewFollower,
		EntityType: "user",
		EntityID:   &followerID,
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue follow notification", "error", err)
	}

	slog.InfoContext(ctx, "user followed", "followee_id", followeeID)
	return nil
}

func (s *userService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if err := s.graph.Unfollow(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("unfollowing: %w", err)
	}
	return nil
}

func (s *userService) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	ids, err := s.graph.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing followers: %w", err)
	}
	return s.users.ListByIDs(ctx, ids)
}

func (s *userService) Following(ctx context.Context, userID int64) ([]model.User, error) {
	ids, err := s.graph.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}
	return s.users.ListByIDs(ctx, ids)
}

func (s *userService) Suggestions(ctx context.Context, userID int64, limit int) ([]model.User, error) {
	ids, err := s.graph.Suggestions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return s.users.ListByIDs(ctx, ids)
}

func (s *userService) SearchPeople(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	return s.search.Search(ctx, search.CollectionPeople, query, limit)
}

func (s *userService) enqueueIndex(ctx context.Context, userID int64) {
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType:   queue.TaskTypeIndex,
		Collection: search.CollectionPeople,
		IndexOp:    queue.IndexOpUpsert,
		DocID:      strconv.FormatInt(userID, 10),
	}); err != nil {
		slog.WarnContext(ctx, "failed to enqueue index task", "error", err, "user_id", userID)
	}
}
