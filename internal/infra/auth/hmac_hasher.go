// Package auth provides the infrastructure implementations of the
// credential and token domain services.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"

	"nestly/internal/domain/service"
	"nestly/internal/errors"
)

const (
	// saltSize is the number of random bytes generated per credential.
	saltSize = 128
	// hashSize is the SHA-512 digest length.
	hashSize = sha512.Size
)

type hmacHasher struct{}

// NewHMACHasher creates a PasswordHasher backed by HMAC-SHA512 with a
// per-credential random salt used as the HMAC key.
func NewHMACHasher() service.PasswordHasher {
	return &hmacHasher{}
}

// Hash implements service.PasswordHasher.
func (h *hmacHasher) Hash(password string) ([]byte, []byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate salt")
	}

	return h.compute(password, salt), salt, nil
}

// Verify implements service.PasswordHasher. The stored pair is rejected as
// malformed before any comparison when its sizes don't match what Hash
// produces, so corrupted records surface as errors rather than silent
// mismatches.
func (h *hmacHasher) Verify(password string, hash []byte, salt []byte) (bool, error) {
	if len(salt) != saltSize {
		return false, errors.Errorf("malformed credential salt: got %d bytes, want %d", len(salt), saltSize)
	}
	if len(hash) != hashSize {
		return false, errors.Errorf("malformed credential hash: got %d bytes, want %d", len(hash), hashSize)
	}

	return hmac.Equal(h.compute(password, salt), hash), nil
}

func (h *hmacHasher) compute(password string, salt []byte) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))

	return mac.Sum(nil)
}
