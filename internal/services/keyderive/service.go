package keyderive

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived key length in bytes (AES-256)
	KeySize = 32

	// DefaultIterations is the PBKDF2 iteration count. Deliberately slow to
	// resist offline brute force of low-entropy secrets.
	DefaultIterations = 120_000

	// saltPrefix versions the salt construction. Changing it orphans every
	// previously sealed assignment.
	saltPrefix = "kringle.match.v1:"
)

// Service derives symmetric keys from a participant's secret and their
// stable identity label (email). Derivation is deterministic: there is no
// stored salt, so the same (secret, label) pair always yields the same key.
// If the label ever changes, data sealed under the old label is permanently
// undecryptable; that trade-off avoids a secondary secret store.
type Service struct {
	iterations int
}

// Config holds configuration for key derivation
type Config struct {
	// Iterations overrides the PBKDF2 iteration count. Zero means
	// DefaultIterations. Lowering it below the default is only appropriate
	// in tests.
	Iterations int
}

// New creates a new key derivation service
func New(cfg Config) *Service {
	iterations := cfg.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}
	return &Service{iterations: iterations}
}

// DeriveKey derives a 32-byte key from the secret and identity label using
// PBKDF2-SHA256. The secret is accepted by value and never retained.
func (s *Service) DeriveKey(secret, label string) []byte {
	salt := []byte(saltPrefix + label)
	return pbkdf2.Key([]byte(secret), salt, s.iterations, KeySize, sha256.New)
}
