package model

import "time"

type Event struct {
	ID          int64      `json:"id"`
	HostID      int64      `json:"host_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

const (
	RSVPGoing      = "going"
	RSVPInterested = "interested"
	RSVPDeclined   = "declined"
)

type EventRSVP struct {
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
