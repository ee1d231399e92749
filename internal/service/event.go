package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/store"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotHost       = errors.New("not the event host")
	ErrBadRSVPStatus = errors.New("unknown rsvp status")
	ErrEventInPast   = errors.New("event must start in the future")
)

var rsvpStatuses = map[string]bool{
	model.RSVPGoing:      true,
	model.RSVPInterested: true,
	model.RSVPDeclined:   true,
}

type CreateEventParams struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
}

type EventService interface {
	Create(ctx context.Context, hostID int64, params CreateEventParams) (*model.Event, error)
	Get(ctx context.Context, eventID int64) (*model.Event, error)
	Update(ctx context.Context, userID, eventID int64, params CreateEventParams) (*model.Event, error)
	Delete(ctx context.Context, userID, eventID int64, isAdmin bool) error
	ListUpcoming(ctx context.Context, limit int32) ([]model.Event, error)

	RSVP(ctx context.Context, userID, eventID int64, status string) (*model.EventRSVP, error)
	ListRSVPs(ctx context.Context, eventID int64) ([]model.EventRSVP, error)
}

type eventService struct {
	events store.EventStore
}

func NewEventService(events store.EventStore) EventService {
	return &eventService{events: events}
}

func (s *eventService) Create(ctx context.Context, hostID int64, params CreateEventParams) (*model.Event, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.event",
		UserID:    &hostID,
	})

	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrEmptyContent
	}
	if !params.StartsAt.After(time.Now()) {
		return nil, ErrEventInPast
	}

	event := &model.Event{
		ID:          id.New(),
		HostID:      hostID,
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		StartsAt:    params.StartsAt,
		EndsAt:      params.EndsAt,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	slog.InfoContext(ctx, "event created", "event_id", event.ID)
	return event, nil
}

func (s *eventService) Get(ctx context.Context, eventID int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, userID, eventID int64, params CreateEventParams) (*model.Event, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != userID {
		return nil, ErrNotHost
	}

	if strings.TrimSpace(params.Title) != "" {
		event.Title = params.Title
	}
	if params.Description != "" {
		event.Description = params.Description
	}
	if params.Location != "" {
		event.Location = params.Location
	}
	if !params.StartsAt.IsZero() {
		event.StartsAt = params.StartsAt
	}
	if params.EndsAt != nil {
		event.EndsAt = params.EndsAt
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, userID, eventID int64, isAdmin bool) error {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.HostID != userID && !isAdmin {
		return ErrNotHost
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

func (s *eventService) ListUpcoming(ctx context.Context, limit int32) ([]model.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.events.ListUpcoming(ctx, time.Now(), limit)
}

func (s *eventService) RSVP(ctx context.Context, userID, eventID int64, status string) (*model.EventRSVP, error) {
	if !rsvpStatuses[status] {
		return nil, ErrBadRSVPStatus
	}
	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}

	rsvp := &model.EventRSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	if err := s.events.SetRSVP(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("setting rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *eventService) ListRSVPs(ctx context.Context, eventID int64) ([]model.EventRSVP, error) {
	return s.events.ListRSVPs(ctx, eventID)
}
