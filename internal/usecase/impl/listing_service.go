package impl

import (
	"context"
	"log/slog"

	deliverycontext "nestly/internal/delivery/context"
	"nestly/internal/domain/entity"
	domainerrors "nestly/internal/domain/errors"
	"nestly/internal/domain/repository"
	"nestly/internal/domain/service"
	"nestly/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// listingService implements the ListingUsecase interface.
type listingService struct {
	listingRepo repository.ListingRepository
	fileStore   service.FileStore
	logger      *slog.Logger
}

// ListingServiceParams holds dependencies for listingService, injected by Fx.
type ListingServiceParams struct {
	fx.In

	ListingRepo repository.ListingRepository
	FileStore   service.FileStore
	Logger      *slog.Logger
}

// NewListingService is the constructor for listingService.
func NewListingService(params ListingServiceParams) usecase.ListingUsecase {
	return &listingService{
		listingRepo: params.ListingRepo,
		fileStore:   params.FileStore,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *listingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List retrieves all listings matching the filter. No authentication required.
func (srv *listingService) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	listings, err := srv.listingRepo.Find(ctx, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list listings", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list listings")
	}

	return listings, nil
}

// GetByID retrieves a single listing. No authentication required.
func (srv *listingService) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	listing, err := srv.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}
		srv.log(ctx).Error("Failed to get listing", slog.Int64("listingID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get listing")
	}

	return listing, nil
}

// ListMine retrieves all listings owned by the authenticated user.
func (srv *listingService) ListMine(ctx context.Context, identity *entity.IdentityClaim) ([]*entity.Listing, error) {
	if identity == nil {
		return nil, domainerrors.ErrForbidden.WrapMessage("no verified identity on request")
	}

	listings, err := srv.listingRepo.FindByOwnerID(ctx, identity.UserID)
	if err != nil {
		srv.log(ctx).Error("Failed to list own listings", slog.Int64("userID", identity.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list own listings")
	}

	return listings, nil
}

// Create publishes a new listing owned by the authenticated user.
// Uploaded images are stored first so the listing row only ever references
// files that exist.
func (srv *listingService) Create(ctx context.Context, identity *entity.IdentityClaim, input *usecase.CreateListingInput) (*entity.Listing, error) {
	if identity == nil {
		return nil, domainerrors.ErrForbidden.WrapMessage("no verified identity on request")
	}

	srv.log(ctx).Info("Creating listing", slog.Int64("userID", identity.UserID), slog.String("title", input.Title))

	imageURLs, err := srv.storeImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		ImageURLs:   imageURLs,
		OwnerID:     identity.UserID,
	}

	if err := srv.listingRepo.Create(ctx, listing); err != nil {
		srv.log(ctx).Error("Failed to create listing", slog.Int64("userID", identity.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create listing")
	}

	srv.log(ctx).Debug("Listing created", slog.Int64("listingID", listing.ID))

	return listing, nil
}

// Update modifies a listing after the not-found and ownership checks pass,
// in that order. A missing listing is reported as missing even to callers
// who would not own it.
func (srv *listingService) Update(ctx context.Context, identity *entity.IdentityClaim, input *usecase.UpdateListingInput) (*entity.Listing, error) {
	existing, err := srv.loadOwned(ctx, identity, input.ID)
	if err != nil {
		return nil, err
	}

	newImageURLs, err := srv.storeImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.Price = input.Price
	existing.Location = input.Location
	existing.ImageURLs = append(append([]string{}, input.KeepImages...), newImageURLs...)

	if err := srv.listingRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}
		srv.log(ctx).Error("Failed to update listing", slog.Int64("listingID", input.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update listing")
	}

	srv.log(ctx).Debug("Listing updated", slog.Int64("listingID", existing.ID))

	return existing, nil
}

// Delete removes a listing after the not-found and ownership checks pass.
func (srv *listingService) Delete(ctx context.Context, identity *entity.IdentityClaim, id int64) error {
	if _, err := srv.loadOwned(ctx, identity, id); err != nil {
		return err
	}

	if err := srv.listingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return domainerrors.ErrListingNotFound
		}
		srv.log(ctx).Error("Failed to delete listing", slog.Int64("listingID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete listing")
	}

	srv.log(ctx).Debug("Listing deleted", slog.Int64("listingID", id))

	return nil
}

// loadOwned fetches a listing and authorizes the caller as its owner.
// Existence is checked before ownership so the two failures stay distinct.
func (srv *listingService) loadOwned(ctx context.Context, identity *entity.IdentityClaim, id int64) (*entity.Listing, error) {
	listing, err := srv.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find listing")
	}

	if err := service.AuthorizeOwner(identity, listing.OwnerID); err != nil {
		srv.log(ctx).Warn("Ownership check failed",
			slog.Int64("listingID", id),
			slog.Int64("ownerID", listing.OwnerID),
		)

		return nil, err
	}

	return listing, nil
}

func (srv *listingService) storeImages(ctx context.Context, images []usecase.UploadImage) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, image := range images {
		url, err := srv.fileStore.Save(ctx, image.Filename, image.Content)
		if err != nil {
			srv.log(ctx).Error("Failed to store uploaded image", slog.String("filename", image.Filename), slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrUploadFailed, "failed to store uploaded image")
		}
		urls = append(urls, url)
	}

	return urls, nil
}
