package common

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken returns a random URL-safe token of exactly length
// characters. The alphabet never needs escaping inside a path segment.
func GenerateToken(length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("invalid token length: %d", length)
	}

	raw := make([]byte, base64.RawURLEncoding.DecodedLen(length)+1)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
