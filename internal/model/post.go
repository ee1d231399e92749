package model

import "time"

// Post is a feed entry. GroupID or PageID is set when the post belongs to a
// group or a managed page; both nil means a personal timeline post.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	GroupID   *int64    `json:"group_id,omitempty"`
	PageID    *int64    `json:"page_id,omitempty"`
	Content   string    `json:"content"`
	MediaURL  *string   `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Reaction kinds mirror what the feed UI offers.
const (
	ReactionLike      = "like"
	ReactionLove      = "love"
	ReactionCelebrate = "celebrate"
	ReactionInsight   = "insight"
)

type Reaction struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
