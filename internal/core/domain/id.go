// Package domain defines the core domain models for SyncSphere.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity ID prefixes. IDs have the format <prefix><ulid_lowercase>,
// 31 characters total.
const (
	RecoveryIDPrefix     = "ssrc-"
	TransferIDPrefix     = "sstr-"
	DeviceIDPrefix       = "ssdv-"
	UserIDPrefix         = "ssus-"
	SubscriptionIDPrefix = "sssb-"
	NotificationIDPrefix = "ssnt-"
)

// NewID generates a ULID-based entity ID with the given prefix.
func NewID(prefix string) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return prefix + strings.ToLower(id.String()), nil
}

// IsValidID checks that id carries the given prefix followed by a ULID.
func IsValidID(id, prefix string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, prefix) {
		return false
	}
	if len(id) != len(prefix)+26 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(prefix):]))
	return err == nil
}
