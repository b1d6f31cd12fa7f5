package impl

import (
	"context"
	"strings"
	"testing"

	"nestly/internal/domain/entity"
	domainerrors "nestly/internal/domain/errors"
	"nestly/internal/domain/repository"
	mockRepo "nestly/internal/mocks/repository"
	mockSvc "nestly/internal/mocks/service"
	"nestly/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// listingServiceFixtures holds all test dependencies for listing service tests.
type listingServiceFixtures struct {
	service     usecase.ListingUsecase
	listingRepo *mockRepo.MockListingRepository
	fileStore   *mockSvc.MockFileStore
}

func createTestListingService(t *testing.T) listingServiceFixtures {
	listingRepo := mockRepo.NewMockListingRepository(t)
	fileStore := mockSvc.NewMockFileStore(t)

	service := NewListingService(ListingServiceParams{
		ListingRepo: listingRepo,
		FileStore:   fileStore,
		Logger:      newDiscardLogger(),
	})

	return listingServiceFixtures{
		service:     service,
		listingRepo: listingRepo,
		fileStore:   fileStore,
	}
}

func ownerIdentity() *entity.IdentityClaim {
	return &entity.IdentityClaim{UserID: 1, Username: "Owner", Email: "owner@example.com"}
}

func strangerIdentity() *entity.IdentityClaim {
	return &entity.IdentityClaim{UserID: 2, Username: "Stranger", Email: "stranger@example.com"}
}

func storedListing() *entity.Listing {
	return &entity.Listing{
		ID:          10,
		Title:       "Cozy flat",
		Description: "Two rooms near the park",
		Price:       1200,
		Location:    "Springfield",
		ImageURLs:   []string{"/images/a.jpg"},
		OwnerID:     1,
	}
}

func TestListingService_List(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	filter := repository.ListingFilter{Location: "Springfield"}
	fx.listingRepo.EXPECT().Find(ctx, filter).Return([]*entity.Listing{storedListing()}, nil)

	listings, err := fx.service.List(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestListingService_GetByID_NotFound(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.listingRepo.EXPECT().FindByID(ctx, int64(99)).Return(nil, repository.ErrListingNotFound)

	_, err := fx.service.GetByID(ctx, 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrListingNotFound))
}

func TestListingService_Create_Success(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.fileStore.EXPECT().
		Save(ctx, "front.jpg", mock.Anything).
		Return("/images/generated.jpg", nil)

	fx.listingRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Listing")).
		Run(func(ctx context.Context, listing *entity.Listing) {
			listing.ID = 10
		}).
		Return(nil)

	listing, err := fx.service.Create(ctx, ownerIdentity(), &usecase.CreateListingInput{
		Title:       "Cozy flat",
		Description: "Two rooms near the park",
		Price:       1200,
		Location:    "Springfield",
		Images: []usecase.UploadImage{
			{Filename: "front.jpg", Content: strings.NewReader("jpeg-bytes")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), listing.ID)
	assert.Equal(t, int64(1), listing.OwnerID)
	assert.Equal(t, []string{"/images/generated.jpg"}, listing.ImageURLs)
}

func TestListingService_Create_UploadFailure(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.fileStore.EXPECT().
		Save(ctx, "front.jpg", mock.Anything).
		Return("", errors.New("disk full"))

	_, err := fx.service.Create(ctx, ownerIdentity(), &usecase.CreateListingInput{
		Title:       "Cozy flat",
		Description: "Two rooms near the park",
		Price:       1200,
		Location:    "Springfield",
		Images: []usecase.UploadImage{
			{Filename: "front.jpg", Content: strings.NewReader("jpeg-bytes")},
		},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUploadFailed))
}

func TestListingService_Update_NotFoundBeforeOwnership(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	// Even a caller who would fail the ownership check sees "not found"
	// for a missing listing.
	fx.listingRepo.EXPECT().FindByID(ctx, int64(99)).Return(nil, repository.ErrListingNotFound)

	_, err := fx.service.Update(ctx, strangerIdentity(), &usecase.UpdateListingInput{ID: 99, Title: "X"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrListingNotFound))
	assert.False(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestListingService_Update_ForbiddenForNonOwner(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.listingRepo.EXPECT().FindByID(ctx, int64(10)).Return(storedListing(), nil)

	_, err := fx.service.Update(ctx, strangerIdentity(), &usecase.UpdateListingInput{ID: 10, Title: "Hijacked"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestListingService_Update_Success(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.listingRepo.EXPECT().FindByID(ctx, int64(10)).Return(storedListing(), nil)
	fx.listingRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Listing")).
		Return(nil)

	listing, err := fx.service.Update(ctx, ownerIdentity(), &usecase.UpdateListingInput{
		ID:          10,
		Title:       "Updated flat",
		Description: "Freshly renovated",
		Price:       1500,
		Location:    "Springfield",
		KeepImages:  []string{"/images/a.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Updated flat", listing.Title)
	assert.Equal(t, float64(1500), listing.Price)
	assert.Equal(t, []string{"/images/a.jpg"}, listing.ImageURLs)

	// The owner never changes on update.
	assert.Equal(t, int64(1), listing.OwnerID)
}

func TestListingService_Delete_ForbiddenForNonOwner(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.listingRepo.EXPECT().FindByID(ctx, int64(10)).Return(storedListing(), nil)

	err := fx.service.Delete(ctx, strangerIdentity(), 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestListingService_Delete_Success(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.listingRepo.EXPECT().FindByID(ctx, int64(10)).Return(storedListing(), nil)
	fx.listingRepo.EXPECT().Delete(ctx, int64(10)).Return(nil)

	err := fx.service.Delete(ctx, ownerIdentity(), 10)

	require.NoError(t, err)
}

func TestListingService_ListMine(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	fx.listingRepo.EXPECT().FindByOwnerID(ctx, int64(1)).Return([]*entity.Listing{storedListing()}, nil)

	listings, err := fx.service.ListMine(ctx, ownerIdentity())

	require.NoError(t, err)
	assert.Len(t, listings, 1)
}
