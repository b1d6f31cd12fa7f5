package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nestly/internal/domain/entity"
	"nestly/internal/domain/service"
	"nestly/internal/errors"
)

// tokenTTL is the fixed lifetime of every issued token. There is no
// refresh mechanism; clients re-authenticate after expiry.
const tokenTTL = 7 * 24 * time.Hour

type identityClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type jwtService struct {
	signingKey []byte
}

// NewJWTService creates a TokenService that signs tokens with HMAC-SHA256.
// An empty signing key is a configuration fault and is rejected up front so
// the process fails at startup rather than minting forgeable tokens.
func NewJWTService(signingKey string) (service.TokenService, error) {
	if signingKey == "" {
		return nil, errors.New("token signing key is not configured")
	}

	return &jwtService{signingKey: []byte(signingKey)}, nil
}

// Issue implements service.TokenService.
func (s *jwtService) Issue(user *entity.User) (string, error) {
	now := time.Now().UTC()
	claims := identityClaims{
		Name:  user.Username,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify implements service.TokenService. Signature, algorithm, and
// expiration are all enforced; any failure collapses to a single invalid
// outcome so callers can't distinguish a tampered token from an expired one.
func (s *jwtService) Verify(tokenString string) (*entity.IdentityClaim, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "token subject is not a user id")
	}

	return &entity.IdentityClaim{
		UserID:   userID,
		Username: claims.Name,
		Email:    claims.Email,
	}, nil
}
