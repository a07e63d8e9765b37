package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
)

func newDeviceHarness(t *testing.T) (*DeviceService, *fakeDevices, *memCache, *capturePublisher) {
	t.Helper()
	devices := newFakeDevices()
	mc := newMemCache()
	pub := &capturePublisher{}
	svc := NewDeviceService(devices, mc, pub, discardLogger())
	return svc, devices, mc, pub
}

func TestRegisterAndGetDevice(t *testing.T) {
	svc, _, mc, _ := newDeviceHarness(t)
	ctx := context.Background()

	device, err := svc.Register(ctx, &RegisterDeviceRequest{
		UserID:       testUserID,
		Name:         "My Phone",
		DeviceType:   "smartphone",
		Model:        "Pixel 9",
		OSVersion:    "15",
		SerialNumber: "SN-100",
		Capabilities: domain.JSONMap{"nfc": true},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceDisconnected, device.Status)

	// First read populates the cache.
	got, err := svc.GetOwned(ctx, testUserID, device.ID)
	require.NoError(t, err)
	assert.Equal(t, device.ID, got.ID)
	assert.True(t, mc.has(cache.DeviceKey(device.ID)))

	// A foreign user reads not-found even on a cache hit.
	_, err = svc.GetOwned(ctx, "ssus-intruder", device.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrDeviceNotFound.Code))
}

func TestDeviceUpdateInvalidatesCache(t *testing.T) {
	svc, _, mc, _ := newDeviceHarness(t)
	ctx := context.Background()

	device, err := svc.Register(ctx, &RegisterDeviceRequest{
		UserID: testUserID, Name: "My Phone", DeviceType: "smartphone",
		Model: "Pixel 9", SerialNumber: "SN-101",
	})
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, testUserID, device.ID)
	require.NoError(t, err)
	require.True(t, mc.has(cache.DeviceKey(device.ID)))

	updated, err := svc.Update(ctx, testUserID, device.ID, &UpdateDeviceRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, mc.has(cache.DeviceKey(device.ID)), "write invalidates the cache key")

	got, err := svc.GetOwned(ctx, testUserID, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestConnectAndDisconnectDevice(t *testing.T) {
	svc, _, mc, pub := newDeviceHarness(t)
	ctx := context.Background()

	device, err := svc.Register(ctx, &RegisterDeviceRequest{
		UserID: testUserID, Name: "My Phone", DeviceType: "smartphone",
		Model: "Pixel 9", SerialNumber: "SN-102",
	})
	require.NoError(t, err)

	connected, err := svc.Connect(ctx, testUserID, device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceConnected, connected.Status)
	assert.NotEmpty(t, connected.ConnectionID)
	assert.NotNil(t, connected.LastSeenAt)
	require.Len(t, pub.byKind(events.DeviceConnected), 1)

	// Connection-ID lookup goes through its own cache key.
	byConn, err := svc.GetByConnectionID(ctx, connected.ConnectionID)
	require.NoError(t, err)
	assert.Equal(t, device.ID, byConn.ID)
	assert.True(t, mc.has(cache.DeviceConnectionKey(connected.ConnectionID)))

	// Reconnecting rotates the connection ID.
	reconnected, err := svc.Connect(ctx, testUserID, device.ID)
	require.NoError(t, err)
	assert.NotEqual(t, connected.ConnectionID, reconnected.ConnectionID)

	require.NoError(t, svc.Disconnect(ctx, testUserID, device.ID))
	got, err := svc.GetOwned(ctx, testUserID, device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceDisconnected, got.Status)
	require.Len(t, pub.byKind(events.DeviceDisconnected), 1)
}

func TestRegisterDeviceRejectsDuplicateSerial(t *testing.T) {
	svc, _, _, _ := newDeviceHarness(t)
	ctx := context.Background()

	req := &RegisterDeviceRequest{
		UserID: testUserID, Name: "My Phone", DeviceType: "smartphone",
		Model: "Pixel 9", SerialNumber: "SN-103",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.True(t, domain.IsDomainError(err, domain.ErrDeviceConflict.Code))
}

func TestDeleteDevice(t *testing.T) {
	svc, _, mc, _ := newDeviceHarness(t)
	ctx := context.Background()

	device, err := svc.Register(ctx, &RegisterDeviceRequest{
		UserID: testUserID, Name: "My Phone", DeviceType: "smartphone",
		Model: "Pixel 9", SerialNumber: "SN-104",
	})
	require.NoError(t, err)
	_, err = svc.GetOwned(ctx, testUserID, device.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testUserID, device.ID))
	assert.False(t, mc.has(cache.DeviceKey(device.ID)))

	_, err = svc.GetOwned(ctx, testUserID, device.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrDeviceNotFound.Code))
}
