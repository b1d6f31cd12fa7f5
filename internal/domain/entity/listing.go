package entity

import (
	"time"
)

// Listing is a property advertisement owned by exactly one user. The owner
// is fixed at creation and never transferred.
type Listing struct {
	ID          int64     `json:"id"`          // Numeric identifier, assigned by the database at creation.
	Title       string    `json:"title"`       // Short headline of the listing.
	Description string    `json:"description"` // Free-form description text.
	Price       float64   `json:"price"`       // Asking price.
	Location    string    `json:"location"`    // Human-readable location string.
	ImageURLs   []string  `json:"image_urls"`  // Stable references to uploaded images, e.g. "/images/<name>".
	OwnerID     int64     `json:"owner_id"`    // The ID of the user who owns this listing.
	CreatedAt   time.Time `json:"created_at"`  // Timestamp of when this listing was created (UTC).
	UpdatedAt   time.Time `json:"updated_at"`  // Timestamp of the last modification.
}
