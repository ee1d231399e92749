package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type eventStore struct {
	q db.Querier
}

func newEventStore(q db.Querier) EventStore {
	return &eventStore{q: q}
}

const eventColumns = `id, host_id, title, description, location, starts_at, ends_at, cover_url, created_at`

func (s *eventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	row := s.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (s *eventStore) Create(ctx context.Context, event *model.Event) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO events (id, host_id, title, description, location, starts_at, ends_at, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+eventColumns,
		event.ID, event.HostID, event.Title, event.Description, event.Location, event.StartsAt, event.EndsAt, event.CoverURL)
	created, err := scanEvent(row)
	if err != nil {
		return err
	}
	*event = *created
	return nil
}

func (s *eventStore) Update(ctx context.Context, event *model.Event) error {
	row := s.q.QueryRow(ctx, `
		UPDATE events SET title = $2, description = $3, location = $4, starts_at = $5, ends_at = $6, cover_url = $7
		WHERE id = $1
		RETURNING `+eventColumns,
		event.ID, event.Title, event.Description, event.Location, event.StartsAt, event.EndsAt, event.CoverURL)
	updated, err := scanEvent(row)
	if err != nil {
		return err
	}
	*event = *updated
	return nil
}

func (s *eventStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func (s *eventStore) ListUpcoming(ctx context.Context, after time.Time, limit int32) ([]model.Event, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE starts_at > $1
		ORDER BY starts_at ASC
		LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (s *eventStore) SetRSVP(ctx context.Context, rsvp *model.EventRSVP) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO event_rsvps (event_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING event_id, user_id, status, created_at`,
		rsvp.EventID, rsvp.UserID, rsvp.Status)
	return row.Scan(&rsvp.EventID, &rsvp.UserID, &rsvp.Status, &rsvp.CreatedAt)
}

func (s *eventStore) ListRSVPs(ctx context.Context, eventID int64) ([]model.EventRSVP, error) {
	rows, err := s.q.Query(ctx, `
		SELECT event_id, user_id, status, created_at FROM event_rsvps
		WHERE event_id = $1 ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []model.EventRSVP
	for rows.Next() {
		var r model.EventRSVP
		if err := rows.Scan(&r.EventID, &r.UserID, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, r)
	}
	return rsvps, rows.Err()
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.HostID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.CoverURL, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}
