package matchcipher

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kringleapp/kringle/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	key     []byte
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
	s.key = make([]byte, 32)
	for i := range s.key {
		s.key[i] = byte(i)
	}
}

func (s *ServiceSuite) payload() Payload {
	return Payload{
		RecipientID:    "p-recipient",
		RecipientName:  "Alice",
		RecipientEmail: "alice@example.com",
	}
}

func (s *ServiceSuite) TestSealAndOpenRoundTrip() {
	seal, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	opened, err := s.service.Open(seal, s.key)
	s.Require().NoError(err)
	s.Equal(s.payload(), opened)
}

func (s *ServiceSuite) TestSealProducesHexFields() {
	seal, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	nonce, err := hex.DecodeString(seal.Nonce)
	s.Require().NoError(err)
	s.Len(nonce, 12)

	tag, err := hex.DecodeString(seal.AuthTag)
	s.Require().NoError(err)
	s.Len(tag, 16)

	_, err = hex.DecodeString(seal.Ciphertext)
	s.NoError(err)
}

func (s *ServiceSuite) TestSealUsesFreshNonces() {
	first, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	second, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	s.NotEqual(first.Nonce, second.Nonce)
	s.NotEqual(first.Ciphertext, second.Ciphertext)
}

func (s *ServiceSuite) TestOpenFailsWithWrongKey() {
	seal, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	wrongKey := make([]byte, 32)
	copy(wrongKey, s.key)
	wrongKey[0] ^= 0xff

	_, err = s.service.Open(seal, wrongKey)
	s.ErrorIs(err, model.ErrDecryptionFailed)
}

func (s *ServiceSuite) TestOpenFailsWithTamperedCiphertext() {
	seal, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	raw, err := hex.DecodeString(seal.Ciphertext)
	s.Require().NoError(err)
	raw[0] ^= 0xff
	seal.Ciphertext = hex.EncodeToString(raw)

	_, err = s.service.Open(seal, s.key)
	s.ErrorIs(err, model.ErrDecryptionFailed)
}

func (s *ServiceSuite) TestOpenFailsWithTamperedTag() {
	seal, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	raw, err := hex.DecodeString(seal.AuthTag)
	s.Require().NoError(err)
	raw[0] ^= 0xff
	seal.AuthTag = hex.EncodeToString(raw)

	_, err = s.service.Open(seal, s.key)
	s.ErrorIs(err, model.ErrDecryptionFailed)
}

func (s *ServiceSuite) TestOpenFailsWithMalformedFields() {
	seal, err := s.service.Seal(s.payload(), s.key)
	s.Require().NoError(err)

	malformed := seal
	malformed.Nonce = "not-hex"
	_, err = s.service.Open(malformed, s.key)
	s.ErrorIs(err, model.ErrDecryptionFailed)

	malformed = seal
	malformed.Nonce = "abcd" // wrong length
	_, err = s.service.Open(malformed, s.key)
	s.ErrorIs(err, model.ErrDecryptionFailed)

	malformed = seal
	malformed.AuthTag = "abcd"
	_, err = s.service.Open(malformed, s.key)
	s.ErrorIs(err, model.ErrDecryptionFailed)
}

func (s *ServiceSuite) TestSealFailsWithBadKeyLength() {
	_, err := s.service.Seal(s.payload(), []byte("short"))
	s.Error(err)
}
