package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrCipher is returned when sealed data cannot be opened.
var ErrCipher = errors.New("cannot open sealed value")

const nonceSize = 24

// SecretBoxSealer seals and opens short secrets with NaCl secretbox under a
// single symmetric key. Sealed values are base64-encoded with the nonce
// prepended.
type SecretBoxSealer struct {
	key *[32]byte
}

// NewSecretBoxSealer returns a sealer using the given 32-byte key.
func NewSecretBoxSealer(key *[32]byte) *SecretBoxSealer {
	return &SecretBoxSealer{key: key}
}

// Seal encrypts plaintext and returns it base64-encoded.
func (s *SecretBoxSealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *SecretBoxSealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrCipher
	}
	if len(raw) < nonceSize {
		return "", ErrCipher
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, s.key)
	if !ok {
		return "", ErrCipher
	}
	return string(plaintext), nil
}
