package model

import "time"

const (
	ReportOpen      = "open"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report is a user-submitted moderation flag handled in the admin console.
type Report struct {
	ID         int64      `json:"id"`
	ReporterID int64      `json:"reporter_id"`
	EntityType string     `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
