package matchcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kringleapp/kringle/internal/model"
)

const (
	nonceSize = 12 // 96-bit GCM nonce
	tagSize   = 16 // 128-bit GCM tag
)

// Payload is the plaintext sealed into an assignment: the minimum needed to
// display a match. Nothing else is ever encrypted.
type Payload struct {
	RecipientID    model.ParticipantID `json:"recipient_id"`
	RecipientName  string              `json:"recipient_name"`
	RecipientEmail string              `json:"recipient_email"`
}

// Service provides authenticated encryption of match payloads with
// AES-256-GCM. Seal and Open are pure functions of their inputs; the service
// carries no state.
type Service struct{}

// New creates a new match cipher
func New() *Service {
	return &Service{}
}

// Seal encrypts the payload under the 32-byte key with a fresh random nonce.
// Ciphertext, nonce and tag come back hex encoded, ready for storage.
func (s *Service) Seal(payload Payload, key []byte) (model.Seal, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return model.Seal{}, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return model.Seal{}, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return model.Seal{}, fmt.Errorf("nonce generation: %w", err)
	}

	// GCM appends the tag to the ciphertext; store it as a separate field
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return model.Seal{
		Ciphertext: hex.EncodeToString(ciphertext),
		Nonce:      hex.EncodeToString(nonce),
		AuthTag:    hex.EncodeToString(tag),
	}, nil
}

// Open decrypts a sealed payload. It returns model.ErrDecryptionFailed if the
// tag does not verify; GCM never yields partial plaintext on failure and the
// tag comparison is constant-time.
func (s *Service) Open(seal model.Seal, key []byte) (Payload, error) {
	ciphertext, err := hex.DecodeString(seal.Ciphertext)
	if err != nil {
		return Payload{}, model.ErrDecryptionFailed
	}
	nonce, err := hex.DecodeString(seal.Nonce)
	if err != nil || len(nonce) != nonceSize {
		return Payload{}, model.ErrDecryptionFailed
	}
	tag, err := hex.DecodeString(seal.AuthTag)
	if err != nil || len(tag) != tagSize {
		return Payload{}, model.ErrDecryptionFailed
	}

	gcm, err := newGCM(key)
	if err != nil {
		return Payload{}, err
	}

	plaintext, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return Payload{}, model.ErrDecryptionFailed
	}

	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return Payload{}, model.ErrDecryptionFailed
	}
	return payload, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	return cipher.NewGCM(block)
}
