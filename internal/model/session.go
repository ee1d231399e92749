package model

import "time"

// Session's ID is the database row key; Token is the opaque credential
// handed to the client and never serialized into responses by default.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
}
