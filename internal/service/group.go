package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"loopline.app/server/common"
	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/store"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrNotGroupOwner = errors.New("not the group owner")
	ErrOwnerLeaving  = errors.New("owner cannot leave their own group")
)

type UpdateGroupParams struct {
	Name        *string
	Description *string
	CoverURL    *string
}

type GroupService interface {
	Create(ctx context.Context, ownerID int64, name, description string) (*model.Group, error)
	Get(ctx context.Context, groupID int64) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	Update(ctx context.Context, userID, groupID int64, params UpdateGroupParams) (*model.Group, error)
	Delete(ctx context.Context, userID, groupID int64, isAdmin bool) error
	List(ctx context.Context, limit int32) ([]model.Group, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Group, error)

	Join(ctx context.Context, userID, groupID int64) error
	Leave(ctx context.Context, userID, groupID int64) error
	Members(ctx context.Context, groupID int64) ([]model.GroupMember, error)
}

type groupService struct {
	groups store.GroupStore
}

func NewGroupService(groups store.GroupStore) GroupService {
	return &groupService{groups: groups}
}

func (s *groupService) Create(ctx context.Context, ownerID int64, name, description string) (*model.Group, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.group",
		UserID:    &ownerID,
	})

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyContent
	}

	group := &model.Group{
		ID:          id.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	}

	slug, err := common.Slugify(name, strconv.FormatInt(group.ID, 10))
	if err != nil {
		return nil, fmt.Errorf("building slug: %w", err)
	}
	group.Slug = slug

	// Slugs collide; retry once with the id as a suffix.
	if _, err := s.groups.GetBySlug(ctx, slug); err == nil {
		group.Slug = slug + "-" + strconv.FormatInt(group.ID, 10)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking slug: %w", err)
	}

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("creating group: %w", err)
	}

	owner := &model.GroupMember{GroupID: group.ID, UserID: ownerID, Role: model.GroupRoleOwner}
	if err := s.groups.AddMember(ctx, owner); err != nil {
		return nil, fmt.Errorf("adding owner member: %w", err)
	}

	slog.InfoContext(ctx, "group created", "group_id", group.ID, "slug", group.Slug)
	return group, nil
}

func (s *groupService) Get(ctx context.Context, groupID int64) (*model.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return group, nil
}

func (s *groupService) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return group, nil
}

func (s *groupService) Update(ctx context.Context, userID, groupID int64, params UpdateGroupParams) (*model.Group, error) {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, ErrNotGroupOwner
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		group.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		group.Description = *params.Description
	}
	if params.CoverURL != nil {
		group.CoverURL = params.CoverURL
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("updating group: %w", err)
	}
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, userID, groupID int64, isAdmin bool) error {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != userID && !isAdmin {
		return ErrNotGroupOwner
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	return nil
}

func (s *groupService) List(ctx context.Context, limit int32) ([]model.Group, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.groups.List(ctx, limit)
}

func (s *groupService) ListByUser(ctx context.Context, userID int64) ([]model.Group, error) {
	return s.groups.ListByUser(ctx, userID)
}

func (s *groupService) Join(ctx context.Context, userID, groupID int64) error {
	if _, err := s.Get(ctx, groupID); err != nil {
		return err
	}

	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	if member {
		return nil
	}

	m := &model.GroupMember{GroupID: groupID, UserID: userID, Role: model.GroupRoleMember}
	if err := s.groups.AddMember(ctx, m); err != nil {
		return fmt.Errorf("adding member: %w", err)
	}
	return nil
}

func (s *groupService) Leave(ctx context.Context, userID, groupID int64) error {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == userID {
		return ErrOwnerLeaving
	}
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("removing member: %w", err)
	}
	return nil
}

func (s *groupService) Members(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	return s.groups.ListMembers(ctx, groupID)
}
