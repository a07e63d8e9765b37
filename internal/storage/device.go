// Package storage provides the persistent store for SyncSphere.
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// DeviceRepo persists devices.
type DeviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepo creates a device repository.
func NewDeviceRepo(db *gorm.DB) *DeviceRepo {
	return &DeviceRepo{db: db}
}

// Create persists a new device.
func (r *DeviceRepo) Create(ctx context.Context, d *domain.Device) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDeviceConflict
		}
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Get retrieves a device by ID.
func (r *DeviceRepo) Get(ctx context.Context, id string) (*domain.Device, error) {
	var d domain.Device
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &d, nil
}

// GetByConnectionID retrieves a device by its live connection ID.
func (r *DeviceRepo) GetByConnectionID(ctx context.Context, connectionID string) (*domain.Device, error) {
	var d domain.Device
	err := r.db.WithContext(ctx).First(&d, "connection_id = ?", connectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &d, nil
}

// ListByUser retrieves all devices owned by a user.
func (r *DeviceRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Device, error) {
	var items []*domain.Device
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return items, nil
}

// Update persists changes to a device.
func (r *DeviceRepo) Update(ctx context.Context, d *domain.Device) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// UpdateStatus sets the device status and, when connecting, the new
// connection ID and last-seen timestamp.
func (r *DeviceRepo) UpdateStatus(ctx context.Context, id string, status domain.DeviceStatus, connectionID string) error {
	now := time.Now()
	updates := map[string]any{
		"status":       status,
		"last_seen_at": &now,
	}
	if connectionID != "" {
		updates["connection_id"] = connectionID
	}
	res := r.db.WithContext(ctx).Model(&domain.Device{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

// Delete removes a device.
func (r *DeviceRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Device{}, "id = ?", id)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}
