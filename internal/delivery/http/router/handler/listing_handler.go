package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"nestly/internal/delivery/http/middleware"
	"nestly/internal/delivery/http/response"
	"nestly/internal/domain/repository"
	"nestly/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// listingForm is the multipart form shape shared by create and update.
type listingForm struct {
	Title       string  `form:"title" validate:"required,max=255"`
	Description string  `form:"description" validate:"required"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Location    string  `form:"location" validate:"required,max=255"`
}

// ListingHandler holds dependencies for listing-related handlers.
type ListingHandler struct {
	uc     usecase.ListingUsecase
	logger *slog.Logger
}

// NewListingHandler is the constructor for ListingHandler, injected by Fx.
func NewListingHandler(uc usecase.ListingUsecase, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		uc:     uc,
		logger: logger,
	}
}

// List handles the public listing search request.
func (h *ListingHandler) List(c echo.Context) error {
	filter, err := parseListingFilter(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid filter parameters")
	}

	listings, err := h.uc.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listings, "Listings retrieved successfully")
}

// GetByID handles the public single-listing request.
func (h *ListingHandler) GetByID(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing ID")
	}

	listing, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listing, "Listing retrieved successfully")
}

// ListMine handles the request for the caller's own listings.
func (h *ListingHandler) ListMine(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)

	listings, err := h.uc.ListMine(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listings, "Listings retrieved successfully")
}

// Create handles the listing creation request. The payload is a multipart
// form so image files ride along with the listing fields.
func (h *ListingHandler) Create(c echo.Context) error {
	var form listingForm
	if err := c.Bind(&form); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}
	if err := c.Validate(&form); err != nil {
		return errors.WithStack(err)
	}

	images, err := collectImages(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid image upload")
	}
	defer closeImages(images)

	identity := middleware.IdentityFromContext(c)
	listing, err := h.uc.Create(c.Request().Context(), identity, &usecase.CreateListingInput{
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Location:    form.Location,
		Images:      toUploadImages(images),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, listing, "Listing created successfully")
}

// Update handles the listing update request. Image references listed in the
// existingImages form values survive; newly uploaded files are appended.
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing ID")
	}

	var form listingForm
	if err := c.Bind(&form); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}
	if err := c.Validate(&form); err != nil {
		return errors.WithStack(err)
	}

	images, err := collectImages(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid image upload")
	}
	defer closeImages(images)

	keepImages, _ := c.FormParams()
	identity := middleware.IdentityFromContext(c)
	listing, err := h.uc.Update(c.Request().Context(), identity, &usecase.UpdateListingInput{
		ID:          id,
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Location:    form.Location,
		Images:      toUploadImages(images),
		KeepImages:  keepImages["existingImages"],
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listing, "Listing updated successfully")
}

// Delete handles the listing deletion request.
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing ID")
	}

	identity := middleware.IdentityFromContext(c)
	if err := h.uc.Delete(c.Request().Context(), identity, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Listing deleted successfully")
}

// --- Request parsing helpers ---

func parseListingID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func parseListingFilter(c echo.Context) (repository.ListingFilter, error) {
	filter := repository.ListingFilter{
		Location: c.QueryParam("location"),
		Title:    c.QueryParam("title"),
	}

	if raw := c.QueryParam("minPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, err
		}
		filter.MinPrice = &value
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, err
		}
		filter.MaxPrice = &value
	}

	return filter, nil
}

type openedImage struct {
	filename string
	file     multipart.File
}

// collectImages opens every uploaded file under the "images" form key.
// A request without a multipart body simply has no images.
func collectImages(c echo.Context) ([]openedImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}

		return nil, err
	}

	opened := make([]openedImage, 0, len(form.File["images"]))
	for _, header := range form.File["images"] {
		if header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			closeImages(opened)

			return nil, err
		}
		opened = append(opened, openedImage{filename: header.Filename, file: file})
	}

	return opened, nil
}

func closeImages(images []openedImage) {
	for _, image := range images {
		image.file.Close()
	}
}

func toUploadImages(images []openedImage) []usecase.UploadImage {
	uploads := make([]usecase.UploadImage, 0, len(images))
	for _, image := range images {
		uploads = append(uploads, usecase.UploadImage{
			Filename: image.filename,
			Content:  image.file,
		})
	}

	return uploads
}
