package model

import (
	"encoding/json"
	"time"
)

// UnsealedSentinel is the value stored in the ciphertext fields of a
// persisted assignment record that has not been sealed yet. It exists only in
// the persisted shape; in memory the seal state is the tagged Seal variant.
const UnsealedSentinel = "UNSEALED"

// Seal holds the sealed ciphertext of an assignment. All three fields are
// hex encoded: a 96-bit nonce, a 128-bit GCM tag, and the ciphertext itself.
type Seal struct {
	Ciphertext string
	Nonce      string
	AuthTag    string
}

// Assignment is one directed giver -> recipient edge of an event's
// derangement. Seal is nil while the row is unsealed; once set it never
// changes for the lifetime of the row.
type Assignment struct {
	EventID     EventID
	GiverID     ParticipantID
	RecipientID ParticipantID
	Seal        *Seal
	CreatedAt   time.Time
	SealedAt    time.Time
}

// Sealed reports whether the assignment ciphertext has been written
func (a *Assignment) Sealed() bool {
	return a.Seal != nil
}

// assignmentRecord is the persisted JSON shape. The three ciphertext fields
// carry the UNSEALED sentinel until the row is sealed.
type assignmentRecord struct {
	EventID       EventID       `json:"event_id"`
	GiverID       ParticipantID `json:"giver_id"`
	RecipientID   ParticipantID `json:"recipient_id"`
	EncryptedData string        `json:"encrypted_data"`
	Nonce         string        `json:"nonce"`
	AuthTag       string        `json:"auth_tag"`
	CreatedAt     time.Time     `json:"created_at"`
	SealedAt      time.Time     `json:"sealed_at,omitzero"`
}

// MarshalJSON writes the persisted record shape
func (a *Assignment) MarshalJSON() ([]byte, error) {
	rec := assignmentRecord{
		EventID:       a.EventID,
		GiverID:       a.GiverID,
		RecipientID:   a.RecipientID,
		EncryptedData: UnsealedSentinel,
		Nonce:         UnsealedSentinel,
		AuthTag:       UnsealedSentinel,
		CreatedAt:     a.CreatedAt,
		SealedAt:      a.SealedAt,
	}
	if a.Seal != nil {
		rec.EncryptedData = a.Seal.Ciphertext
		rec.Nonce = a.Seal.Nonce
		rec.AuthTag = a.Seal.AuthTag
	}
	return json.Marshal(rec)
}

// UnmarshalJSON reads the persisted record shape back into the tagged variant
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var rec assignmentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	a.EventID = rec.EventID
	a.GiverID = rec.GiverID
	a.RecipientID = rec.RecipientID
	a.CreatedAt = rec.CreatedAt
	a.SealedAt = rec.SealedAt
	a.Seal = nil
	if rec.EncryptedData != UnsealedSentinel {
		a.Seal = &Seal{
			Ciphertext: rec.EncryptedData,
			Nonce:      rec.Nonce,
			AuthTag:    rec.AuthTag,
		}
	}
	return nil
}
