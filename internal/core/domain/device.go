// Package domain defines the core domain models for SyncSphere.
package domain

import "time"

// DeviceStatus is the connection/activity status of a device.
type DeviceStatus string

// Device statuses.
const (
	DeviceConnected    DeviceStatus = "connected"
	DeviceDisconnected DeviceStatus = "disconnected"
	DeviceRecovering   DeviceStatus = "recovering"
	DeviceTransferring DeviceStatus = "transferring"
)

// Device field constraints.
const (
	MaxDeviceNameLength   = 128
	MaxDeviceModelLength  = 128
	MaxSerialNumberLength = 64
)

// Cache TTLs for the device cache-aside read path.
const (
	DeviceCacheTTL           = 30 * time.Minute // keyed by device ID
	DeviceConnectionCacheTTL = 60 * time.Minute // keyed by connection ID
)

// Device represents a registered phone or drive a user can recover
// from or transfer between.
type Device struct {
	ID           string       `json:"id" gorm:"primaryKey;size:31"`
	UserID       string       `json:"user_id" gorm:"size:31;index"`
	Name         string       `json:"name" gorm:"size:128"`
	DeviceType   string       `json:"device_type" gorm:"size:32"`
	Model        string       `json:"model" gorm:"size:128"`
	OSVersion    string       `json:"os_version" gorm:"size:64"`
	SerialNumber string       `json:"serial_number" gorm:"size:64;uniqueIndex"`
	ConnectionID string       `json:"connection_id" gorm:"size:64;index"`
	Status       DeviceStatus `json:"status" gorm:"size:16"`
	Capabilities JSONMap      `json:"capabilities,omitempty"`
	LastSeenAt   *time.Time   `json:"last_seen_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewDevice creates a disconnected device with a generated ID.
func NewDevice(userID, name, deviceType, model, serial string) (*Device, error) {
	id, err := NewID(DeviceIDPrefix)
	if err != nil {
		return nil, err
	}
	return &Device{
		ID:           id,
		UserID:       userID,
		Name:         name,
		DeviceType:   deviceType,
		Model:        model,
		SerialNumber: serial,
		Status:       DeviceDisconnected,
	}, nil
}

// OwnedBy reports whether the device belongs to userID.
func (d *Device) OwnedBy(userID string) bool {
	return d.UserID == userID
}

// Connected reports whether the device is usable for recovery/transfer.
func (d *Device) Connected() bool {
	return d.Status == DeviceConnected
}

// Validate validates the device fields against constraints.
func (d *Device) Validate() error {
	if d.UserID == "" {
		return ErrDeviceValidation.WithDetails("user_id is required")
	}
	if d.Name == "" {
		return ErrDeviceValidation.WithDetails("name is required")
	}
	if len(d.Name) > MaxDeviceNameLength {
		return ErrDeviceValidation.WithDetails("name exceeds 128 characters")
	}
	if len(d.Model) > MaxDeviceModelLength {
		return ErrDeviceValidation.WithDetails("model exceeds 128 characters")
	}
	if len(d.SerialNumber) > MaxSerialNumberLength {
		return ErrDeviceValidation.WithDetails("serial_number exceeds 64 characters")
	}
	return nil
}
