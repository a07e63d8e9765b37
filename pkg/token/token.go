// Package token provides secure random identifier generation.
//
// It backs request IDs, device connection IDs, and WebSocket tickets.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// DefaultLength is the default token length in bytes.
const DefaultLength = 32

// Generate generates a cryptographically secure random token,
// Base64 RawURL encoded for safe URL transmission.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates a token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// NewRequestID generates a short request correlation ID.
func NewRequestID() string {
	id, err := GenerateWithLength(12)
	if err != nil {
		return "req-unknown"
	}
	return "req-" + id
}

// NewConnectionID generates an ID for a physical device connection.
// It changes every time a device reconnects.
func NewConnectionID() (string, error) {
	id, err := GenerateWithLength(16)
	if err != nil {
		return "", err
	}
	return "conn-" + id, nil
}
