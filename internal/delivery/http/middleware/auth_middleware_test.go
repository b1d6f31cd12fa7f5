package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nestly/internal/delivery/http/response"
	"nestly/internal/domain/entity"
	mockSvc "nestly/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/listings/my", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	c, rec := newAuthTestContext(t, "")

	handlerCalled := false
	err := m.Authenticate(func(c echo.Context) error {
		handlerCalled = true

		return nil
	})(c)

	require.NoError(t, err)
	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
}

func TestAuthenticate_NotBearer(t *testing.T) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	c, rec := newAuthTestContext(t, "Basic dXNlcjpwYXNz")

	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.EXPECT().Verify("bad-token").Return(nil, errors.New("token is expired"))

	m := NewAuthMiddleware(tokenSvc)
	c, rec := newAuthTestContext(t, "Bearer bad-token")

	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_TOKEN", body.Error.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	identity := &entity.IdentityClaim{UserID: 42, Username: "Test User", Email: "test@example.com"}

	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.EXPECT().Verify("good-token").Return(identity, nil)

	m := NewAuthMiddleware(tokenSvc)
	c, rec := newAuthTestContext(t, "Bearer good-token")

	err := m.Authenticate(func(c echo.Context) error {
		got := IdentityFromContext(c)
		require.NotNil(t, got)
		assert.Equal(t, int64(42), got.UserID)

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityFromContext_Absent(t *testing.T) {
	c, _ := newAuthTestContext(t, "")

	assert.Nil(t, IdentityFromContext(c))
}
