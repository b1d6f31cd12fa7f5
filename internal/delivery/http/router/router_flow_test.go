package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	deliverycontext "nestly/internal/delivery/context"
	"nestly/internal/delivery/http/middleware"
	"nestly/internal/delivery/http/response"
	"nestly/internal/delivery/http/router/handler"
	"nestly/internal/delivery/http/validator"
	"nestly/internal/domain/entity"
	"nestly/internal/domain/repository"
	"nestly/internal/infra/auth"
	"nestly/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory stand-in for the database, shared by the fake
// repositories so state written in one step is visible to the next.
type memoryStore struct {
	mu            sync.Mutex
	users         map[int64]*entity.User
	listings      map[int64]*entity.Listing
	nextUserID    int64
	nextListingID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[int64]*entity.User),
		listings: make(map[int64]*entity.Listing),
	}
}

type memoryUserRepository struct{ store *memoryStore }

func (r *memoryUserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextUserID++
	user.ID = r.store.nextUserID
	r.store.users[user.ID] = user

	return nil
}

type memoryListingRepository struct{ store *memoryStore }

func (r *memoryListingRepository) Find(_ context.Context, _ repository.ListingFilter) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listings := make([]*entity.Listing, 0, len(r.store.listings))
	for _, listing := range r.store.listings {
		listings = append(listings, listing)
	}

	return listings, nil
}

func (r *memoryListingRepository) FindByID(_ context.Context, id int64) (*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}

	return listing, nil
}

func (r *memoryListingRepository) FindByOwnerID(_ context.Context, ownerID int64) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listings := make([]*entity.Listing, 0)
	for _, listing := range r.store.listings {
		if listing.OwnerID == ownerID {
			listings = append(listings, listing)
		}
	}

	return listings, nil
}

func (r *memoryListingRepository) Create(_ context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextListingID++
	listing.ID = r.store.nextListingID
	r.store.listings[listing.ID] = listing

	return nil
}

func (r *memoryListingRepository) Update(_ context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.listings[listing.ID]; !ok {
		return repository.ErrListingNotFound
	}
	r.store.listings[listing.ID] = listing

	return nil
}

func (r *memoryListingRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.listings[id]; !ok {
		return repository.ErrListingNotFound
	}
	delete(r.store.listings, id)

	return nil
}

type memoryRepositoryFactory struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
}

func (f *memoryRepositoryFactory) UserRepo() repository.UserRepository       { return f.userRepo }
func (f *memoryRepositoryFactory) ListingRepo() repository.ListingRepository { return f.listingRepo }

type memoryTransactionManager struct{ factory *memoryRepositoryFactory }

func (m *memoryTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type memoryFileStore struct{}

func (s *memoryFileStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}

	return "/images/" + filename, nil
}

// newFlowTestServer wires the full HTTP surface the way the real server does:
// real hasher, token service, usecases, middlewares and router, with the
// database and file store swapped for in-memory fakes.
func newFlowTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemoryStore()
	userRepo := &memoryUserRepository{store: store}
	listingRepo := &memoryListingRepository{store: store}
	txManager := &memoryTransactionManager{
		factory: &memoryRepositoryFactory{userRepo: userRepo, listingRepo: listingRepo},
	}

	tokenService, err := auth.NewJWTService("flow-test-signing-key")
	require.NoError(t, err)

	authService := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       auth.NewHMACHasher(),
		TokenService: tokenService,
		Logger:       logger,
	})
	listingService := impl.NewListingService(impl.ListingServiceParams{
		ListingRepo: listingRepo,
		FileStore:   &memoryFileStore{},
		Logger:      logger,
	})

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Use(middleware.NewRequestIDMiddleware(logger).Process)

	r := NewRouter(RouterParams{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		ListingHandler: handler.NewListingHandler(listingService, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenService),
	})
	r.RegisterRoutes(e)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func doAuthorized(e *echo.Echo, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func registerAndLogin(t *testing.T, e *echo.Echo, username, email, password string) string {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/auth/register",
		fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	return body.Data.Token
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body.Error.Code
}

func listingMultipart(t *testing.T) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       "Cozy flat",
		"description": "Two rooms near the park",
		"price":       "1200",
		"location":    "Springfield",
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestAccountAndListingFlow(t *testing.T) {
	e := newFlowTestServer(t)

	// Registration succeeds once; the same email is rejected afterwards.
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"Alice","email":"alice@example.com","password":"Password123!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))

	rec = doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"Alice Again","email":"alice@example.com","password":"Password123!"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", errorCode(t, rec))

	// A wrong password is rejected before any token exists.
	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"WrongPassword"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"Password123!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	aliceToken := login.Data.Token
	require.NotEmpty(t, aliceToken)

	// Alice publishes a listing.
	form, contentType := listingMultipart(t)
	rec = doAuthorized(e, http.MethodPost, "/listings", aliceToken, form, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data entity.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)
	listingPath := fmt.Sprintf("/listings/%d", created.Data.ID)

	// A second account cannot delete it.
	bobToken := registerAndLogin(t, e, "Bob", "bob@example.com", "Password456!")
	rec = doAuthorized(e, http.MethodDelete, listingPath, bobToken, nil, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	// An anonymous caller cannot either.
	req := httptest.NewRequest(http.MethodDelete, listingPath, nil)
	anonRec := httptest.NewRecorder()
	e.ServeHTTP(anonRec, req)
	require.Equal(t, http.StatusUnauthorized, anonRec.Code)

	// The owner can, exactly once.
	rec = doAuthorized(e, http.MethodDelete, listingPath, aliceToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doAuthorized(e, http.MethodDelete, listingPath, aliceToken, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LISTING_NOT_FOUND", errorCode(t, rec))
}
