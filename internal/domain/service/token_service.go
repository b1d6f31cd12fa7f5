package service

import (
	"nestly/internal/domain/entity"
)

// TokenService defines the interface for issuing and verifying bearer tokens.
// Tokens are stateless: no server-side session record exists, validity is
// determined purely by signature and expiration at verification time.
type TokenService interface {
	// Issue builds a signed, time-limited bearer token carrying the user's
	// identity claims (id, username, email).
	Issue(user *entity.User) (string, error)

	// Verify validates a token's signature and expiration and decodes the
	// identity claims it carries.
	Verify(tokenString string) (*entity.IdentityClaim, error)
}
