package model

import "time"

const (
	ListingActive = "active"
	ListingSold   = "sold"
	ListingClosed = "closed"
)

// Listing is a marketplace item. Price is stored in minor units.
type Listing struct {
	ID          int64     `json:"id"`
	SellerID    int64     `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	MediaURL    *string   `json:"media_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
