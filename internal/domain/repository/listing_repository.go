package repository

import (
	"context"
	"errors"

	"nestly/internal/domain/entity"
)

// ErrListingNotFound is a domain-specific error returned when a listing is not found.
var ErrListingNotFound = errors.New("listing not found")

// ListingFilter narrows down a listing search. Nil/empty fields are ignored.
type ListingFilter struct {
	MinPrice *float64 // Inclusive lower price bound.
	MaxPrice *float64 // Inclusive upper price bound.
	Location string   // Case-insensitive substring match on the location.
	Title    string   // Case-insensitive substring match on the title.
}

// ListingRepository defines the standard operations for listing persistence.
type ListingRepository interface {
	// Find retrieves all listings matching the given filter.
	Find(ctx context.Context, filter ListingFilter) ([]*entity.Listing, error)

	// FindByID retrieves a single listing by its unique ID.
	FindByID(ctx context.Context, id int64) (*entity.Listing, error)

	// FindByOwnerID retrieves all listings owned by the given user.
	FindByOwnerID(ctx context.Context, ownerID int64) ([]*entity.Listing, error)

	// Create persists a new listing entity to the storage.
	Create(ctx context.Context, listing *entity.Listing) error

	// Update modifies an existing listing entity in the storage.
	Update(ctx context.Context, listing *entity.Listing) error

	// Delete removes a listing by its unique ID.
	Delete(ctx context.Context, id int64) error
}
