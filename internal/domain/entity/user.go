// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core identity record of the system. The credential pair
// (PasswordHash, PasswordSalt) is written once at registration and never
// modified afterwards; there is no password-change path.
type User struct {
	ID           int64     // Numeric identifier, assigned by the database at creation.
	Username     string    // Display name, not required to be unique.
	Email        string    // Login identifier, unique across all users, case-sensitive as stored.
	PasswordHash []byte    // HMAC-SHA512 digest of the password, keyed by PasswordSalt.
	PasswordSalt []byte    // Random keying material generated at registration.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// IdentityClaim is the verified content of a bearer token. It lives on the
// request context for the duration of a single request and is discarded
// when the request completes.
type IdentityClaim struct {
	UserID   int64
	Username string
	Email    string
}
