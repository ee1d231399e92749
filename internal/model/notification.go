package model

import "time"

// Notification kinds produced by the background worker.
const (
	NotifyNewFollower  = "new_follower"
	NotifyNewMessage   = "new_message"
	NotifyPostReaction = "post_reaction"
	NotifyPostComment  = "post_comment"
	NotifyGroupPost    = "group_post"
	NotifyMissedCall   = "missed_call"
)

type Notification struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	ActorID    int64      `json:"actor_id"`
	Kind       string     `json:"kind"`
	EntityType string     `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
