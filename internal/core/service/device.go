package service

import (
	"context"
	"log/slog"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
	"github.com/Bollo444/SyncSphere-sub004/pkg/token"
)

// DeviceRepository defines the storage interface for devices.
type DeviceRepository interface {
	Create(ctx context.Context, d *domain.Device) error
	Get(ctx context.Context, id string) (*domain.Device, error)
	GetByConnectionID(ctx context.Context, connectionID string) (*domain.Device, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Device, error)
	Update(ctx context.Context, d *domain.Device) error
	UpdateStatus(ctx context.Context, id string, status domain.DeviceStatus, connectionID string) error
	Delete(ctx context.Context, id string) error
}

// DeviceService manages registered devices. Reads go through the
// cache-aside path keyed by device ID (30 min TTL) and by connection
// ID (60 min TTL); writes invalidate both keys.
type DeviceService struct {
	devices DeviceRepository
	cache   cache.Store
	bus     events.Publisher
	logger  *slog.Logger
}

// NewDeviceService creates a DeviceService.
func NewDeviceService(devices DeviceRepository, cacheStore cache.Store, bus events.Publisher, logger *slog.Logger) *DeviceService {
	return &DeviceService{devices: devices, cache: cacheStore, bus: bus, logger: logger}
}

// RegisterDeviceRequest contains parameters for device registration.
type RegisterDeviceRequest struct {
	UserID       string
	Name         string
	DeviceType   string
	Model        string
	OSVersion    string
	SerialNumber string
	Capabilities domain.JSONMap
}

// Register creates a new disconnected device for the user.
func (s *DeviceService) Register(ctx context.Context, req *RegisterDeviceRequest) (*domain.Device, error) {
	device, err := domain.NewDevice(req.UserID, req.Name, req.DeviceType, req.Model, req.SerialNumber)
	if err != nil {
		return nil, err
	}
	device.OSVersion = req.OSVersion
	device.Capabilities = req.Capabilities
	if err := device.Validate(); err != nil {
		return nil, err
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}
	s.logger.Info("device registered",
		"device_id", device.ID, "user_id", device.UserID, "device_type", device.DeviceType)
	return device, nil
}

// GetOwned retrieves a device, enforcing ownership. Not-owned reads
// are indistinguishable from absent devices.
func (s *DeviceService) GetOwned(ctx context.Context, userID, deviceID string) (*domain.Device, error) {
	if cached, ok := cache.GetJSON[*domain.Device](ctx, s.cache, cache.DeviceKey(deviceID)); ok {
		if !cached.OwnedBy(userID) {
			return nil, domain.ErrDeviceNotFound
		}
		return cached, nil
	}

	device, err := s.devices.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !device.OwnedBy(userID) {
		return nil, domain.ErrDeviceNotFound
	}
	cache.SetJSON(ctx, s.cache, cache.DeviceKey(deviceID), device, domain.DeviceCacheTTL)
	return device, nil
}

// GetByConnectionID retrieves a device by its live connection ID.
func (s *DeviceService) GetByConnectionID(ctx context.Context, connectionID string) (*domain.Device, error) {
	key := cache.DeviceConnectionKey(connectionID)
	if cached, ok := cache.GetJSON[*domain.Device](ctx, s.cache, key); ok {
		return cached, nil
	}

	device, err := s.devices.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, key, device, domain.DeviceConnectionCacheTTL)
	return device, nil
}

// List retrieves all devices owned by a user.
func (s *DeviceService) List(ctx context.Context, userID string) ([]*domain.Device, error) {
	return s.devices.ListByUser(ctx, userID)
}

// UpdateDeviceRequest contains mutable device fields.
type UpdateDeviceRequest struct {
	Name         string
	OSVersion    string
	Capabilities domain.JSONMap
}

// Update modifies a device's mutable fields and invalidates its cache
// entries.
func (s *DeviceService) Update(ctx context.Context, userID, deviceID string, req *UpdateDeviceRequest) (*domain.Device, error) {
	device, err := s.GetOwned(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		device.Name = req.Name
	}
	if req.OSVersion != "" {
		device.OSVersion = req.OSVersion
	}
	if req.Capabilities != nil {
		device.Capabilities = req.Capabilities
	}
	if err := device.Validate(); err != nil {
		return nil, err
	}
	if err := s.devices.Update(ctx, device); err != nil {
		return nil, err
	}
	s.invalidate(ctx, device)
	return device, nil
}

// Connect marks a device connected under a fresh connection ID.
func (s *DeviceService) Connect(ctx context.Context, userID, deviceID string) (*domain.Device, error) {
	device, err := s.GetOwned(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	connectionID, err := token.NewConnectionID()
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}
	if err := s.devices.UpdateStatus(ctx, deviceID, domain.DeviceConnected, connectionID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, device)

	device, err = s.devices.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("device connected",
		"device_id", deviceID, "connection_id", connectionID)
	s.bus.Publish(events.Event{
		Kind:   events.DeviceConnected,
		UserID: userID,
		Payload: map[string]any{
			"device_id":     deviceID,
			"connection_id": connectionID,
		},
	})
	return device, nil
}

// Disconnect marks a device disconnected and drops its connection ID
// cache entry.
func (s *DeviceService) Disconnect(ctx context.Context, userID, deviceID string) error {
	device, err := s.GetOwned(ctx, userID, deviceID)
	if err != nil {
		return err
	}

	if err := s.devices.UpdateStatus(ctx, deviceID, domain.DeviceDisconnected, ""); err != nil {
		return err
	}
	s.invalidate(ctx, device)

	s.logger.Info("device disconnected", "device_id", deviceID)
	s.bus.Publish(events.Event{
		Kind:   events.DeviceDisconnected,
		UserID: userID,
		Payload: map[string]any{
			"device_id": deviceID,
		},
	})
	return nil
}

// Delete removes a device.
func (s *DeviceService) Delete(ctx context.Context, userID, deviceID string) error {
	device, err := s.GetOwned(ctx, userID, deviceID)
	if err != nil {
		return err
	}
	if err := s.devices.Delete(ctx, deviceID); err != nil {
		return err
	}
	s.invalidate(ctx, device)
	s.logger.Info("device deleted", "device_id", deviceID, "user_id", userID)
	return nil
}

// invalidate drops both cache keys for a device. Deletes are
// best-effort; staleness is bounded by the TTLs.
func (s *DeviceService) invalidate(ctx context.Context, device *domain.Device) {
	keys := []string{cache.DeviceKey(device.ID)}
	if device.ConnectionID != "" {
		keys = append(keys, cache.DeviceConnectionKey(device.ConnectionID))
	}
	s.cache.Delete(ctx, keys...)
}
