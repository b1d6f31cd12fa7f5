// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for turning a plaintext password into
// a verifiable credential pair and checking a plaintext against a stored pair.
// This abstracts the underlying keyed-hash algorithm, keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a fresh random salt and computes a keyed one-way hash
	// of the password using that salt as the key. Two calls with the same
	// password produce different pairs.
	Hash(password string) (hash []byte, salt []byte, err error)

	// Verify recomputes the keyed hash with the supplied salt and compares
	// it against the stored hash in constant time. A salt this component
	// could not have produced itself yields an error, not a false.
	Verify(password string, hash []byte, salt []byte) (bool, error)
}
