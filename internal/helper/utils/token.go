package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// RandomToken returns n random bytes hex-encoded, so the opaque confirmation
// tokens are unpredictable. 32 bytes gives a 64 char string.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("token length must be positive")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
