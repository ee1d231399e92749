package model

import "time"

// Reel is short-video metadata; the video itself lives in object storage.
type Reel struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"author_id"`
	Caption      string    `json:"caption"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
