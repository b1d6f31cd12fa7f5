package usecase

import (
	"context"
	"io"

	"nestly/internal/domain/entity"
	"nestly/internal/domain/repository"
)

// --- Input DTOs ---

// CreateListingInput defines the data required to publish a new listing.
type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Images      []UploadImage
}

// UpdateListingInput defines the data required to update an existing listing.
// Images replace the stored references when present.
type UpdateListingInput struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	Location    string
	Images      []UploadImage
	KeepImages  []string
}

// UploadImage carries one uploaded file from the delivery layer.
type UploadImage struct {
	Filename string
	Content  io.Reader
}

// ListingUsecase defines the interface for listing-related business operations.
// Mutations take the caller's verified identity and enforce ownership.
type ListingUsecase interface {
	List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error)
	GetByID(ctx context.Context, id int64) (*entity.Listing, error)
	ListMine(ctx context.Context, identity *entity.IdentityClaim) ([]*entity.Listing, error)
	Create(ctx context.Context, identity *entity.IdentityClaim, input *CreateListingInput) (*entity.Listing, error)
	Update(ctx context.Context, identity *entity.IdentityClaim, input *UpdateListingInput) (*entity.Listing, error)
	Delete(ctx context.Context, identity *entity.IdentityClaim, id int64) error
}
