// Package cache provides the cache-aside store for SyncSphere services.
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), time.Minute)
	data, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	s.Delete(ctx, "k")
	_, ok = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStoreCopiesValue(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	buf := []byte("original")
	s.Set(ctx, "k", buf, 0)
	buf[0] = 'X'

	data, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), data)
}

func TestGetSetJSON(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	SetJSON(ctx, s, "w", widget{ID: "w1", Count: 3}, time.Minute)

	got, ok := GetJSON[widget](ctx, s, "w")
	require.True(t, ok)
	assert.Equal(t, "w1", got.ID)
	assert.Equal(t, 3, got.Count)

	_, ok = GetJSON[widget](ctx, s, "absent")
	assert.False(t, ok)
}

func TestGetJSONCorruptEntryIsMiss(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "w", []byte("{not json"), time.Minute)

	_, ok := GetJSON[widget](ctx, s, "w")
	assert.False(t, ok)

	// The corrupt entry must have been dropped.
	_, ok = s.Get(ctx, "w")
	assert.False(t, ok)
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "device:ssdv-1", DeviceKey("ssdv-1"))
	assert.Equal(t, "device:conn:c-1", DeviceConnectionKey("c-1"))
	assert.Equal(t, "user:ssus-1", UserKey("ssus-1"))
	assert.Equal(t, "recovery:ssrc-1", RecoveryKey("ssrc-1"))
	assert.Equal(t, "transfer:sstr-1", TransferKey("sstr-1"))
}
