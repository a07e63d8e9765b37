// Package cache provides the cache-aside store used by the read paths
// of the device, user, and recovery services.
//
// All backends share one failure policy: a backend error is logged and
// reported as a miss, and never aborts the caller's primary operation.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store is a byte-oriented cache with per-key TTLs.
//
// Get reports a miss for absent keys, expired keys, and backend
// failures alike. Set and Delete are best-effort.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Close() error
}

// GetJSON reads key and unmarshals it into a value of type T.
// Undecodable entries are treated as misses.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T
	data, ok := s.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		// A corrupt entry behaves like a miss; drop it so the next
		// read repopulates from storage.
		s.Delete(ctx, key)
		return v, false
	}
	return v, true
}

// SetJSON marshals v and stores it under key with the given TTL.
func SetJSON[T any](ctx context.Context, s Store, key string, v T, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(ctx, key, data, ttl)
}

// Key builders. All SyncSphere cache keys are namespaced by entity.

// DeviceKey is the cache key for a device by ID.
func DeviceKey(deviceID string) string {
	return "device:" + deviceID
}

// DeviceConnectionKey is the cache key for a device by connection ID.
func DeviceConnectionKey(connectionID string) string {
	return "device:conn:" + connectionID
}

// UserKey is the cache key for a user by ID.
func UserKey(userID string) string {
	return "user:" + userID
}

// RecoveryKey is the cache key for a recovery session by ID.
func RecoveryKey(recoveryID string) string {
	return "recovery:" + recoveryID
}

// TransferKey is the cache key for a transfer by ID.
func TransferKey(transferID string) string {
	return "transfer:" + transferID
}
