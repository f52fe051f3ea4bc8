package security

import (
	"crypto/rand"
	"encoding/base64"
)

// ConfirmationTokenLength is the length of generated confirmation tokens.
const ConfirmationTokenLength = 60

// GenerateConfirmationToken returns a random 60-character URL-safe token used
// to confirm ownership of a pending identity link.
func GenerateConfirmationToken() (string, error) {
	// 45 random bytes encode to exactly 60 base64 characters.
	b := make([]byte, 45)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
