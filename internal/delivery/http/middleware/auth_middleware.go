package middleware

import (
	"strings"

	"nestly/internal/delivery/http/response"
	"nestly/internal/domain/entity"
	"nestly/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// keyIdentity is the echo.Context key holding the verified identity claim.
const keyIdentity = "identity"

// AuthMiddleware provides middleware for bearer token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and rejects the request before
// any handler runs when the header is missing, malformed, or the token
// fails verification. Protected handlers never see an anonymous request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		identity, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		// Set identity on the context for handlers to use
		c.Set(keyIdentity, identity)

		return next(c)
	}
}

// IdentityFromContext extracts the verified identity set by Authenticate.
// It returns nil when the middleware did not run on this route.
func IdentityFromContext(c echo.Context) *entity.IdentityClaim {
	identity, _ := c.Get(keyIdentity).(*entity.IdentityClaim)

	return identity
}
