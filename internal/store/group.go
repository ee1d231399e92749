package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type groupStore struct {
	q db.Querier
}

func newGroupStore(q db.Querier) GroupStore {
	return &groupStore{q: q}
}

const groupColumns = `id, owner_id, name, slug, description, cover_url, created_at`

func (s *groupStore) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	row := s.q.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id)
	return scanGroup(row)
}

func (s *groupStore) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	row := s.q.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups WHERE slug = $1`, slug)
	return scanGroup(row)
}

func (s *groupStore) Create(ctx context.Context, group *model.Group) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO groups (id, owner_id, name, slug, description, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+groupColumns,
		group.ID, group.OwnerID, group.Name, group.Slug, group.Description, group.CoverURL)
	created, err := scanGroup(row)
	if err != nil {
		return err
	}
	*group = *created
	return nil
}

func (s *groupStore) Update(ctx context.Context, group *model.Group) error {
	row := s.q.QueryRow(ctx, `
		UPDATE groups SET name = $2, description = $3, cover_url = $4
		WHERE id = $1
		RETURNING `+groupColumns,
		group.ID, group.Name, group.Description, group.CoverURL)
	updated, err := scanGroup(row)
	if err != nil {
		return err
	}
	*group = *updated
	return nil
}

func (s *groupStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

func (s *groupStore) List(ctx context.Context, limit int32) ([]model.Group, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+groupColumns+` FROM groups ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectGroups(rows)
}

func (s *groupStore) ListByUser(ctx context.Context, userID int64) ([]model.Group, error) {
	rows, err := s.q.Query(ctx, `
		SELECT g.id, g.owner_id, g.name, g.slug, g.description, g.cover_url, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectGroups(rows)
}

func (s *groupStore) AddMember(ctx context.Context, member *model.GroupMember) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING
		RETURNING group_id, user_id, role, joined_at`,
		member.GroupID, member.UserID, member.Role)
	if err := row.Scan(&member.GroupID, &member.UserID, &member.Role, &member.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // already a member
		}
		return err
	}
	return nil
}

func (s *groupStore) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	return err
}

func (s *groupStore) ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	rows, err := s.q.Query(ctx, `
		SELECT group_id, user_id, role, joined_at
		FROM group_members WHERE group_id = $1
		ORDER BY joined_at ASC`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.GroupMember
	for rows.Next() {
		var m model.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *groupStore) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)`, groupID, userID).Scan(&exists)
	return exists, err
}

func scanGroup(row pgx.Row) (*model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Slug, &g.Description, &g.CoverURL, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func collectGroups(rows pgx.Rows) ([]model.Group, error) {
	defer rows.Close()
	var groups []model.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, rows.Err()
}
