// Package domain defines the core domain models for SyncSphere.
package domain

import "time"

// NotificationKind categorizes a notification.
type NotificationKind string

// Notification kinds.
const (
	NotifyRecoveryCompleted NotificationKind = "recovery_completed"
	NotifyRecoveryFailed    NotificationKind = "recovery_failed"
	NotifyTransferCompleted NotificationKind = "transfer_completed"
	NotifyTransferFailed    NotificationKind = "transfer_failed"
	NotifySystem            NotificationKind = "system"
)

// Notification is a persisted per-user message, also pushed over the
// WebSocket hub when the user is connected.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:31"`
	UserID    string           `json:"user_id" gorm:"size:31;index"`
	Kind      NotificationKind `json:"kind" gorm:"size:32"`
	Title     string           `json:"title" gorm:"size:128"`
	Message   string           `json:"message" gorm:"size:512"`
	Data      JSONMap          `json:"data,omitempty"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewNotification creates an unread notification with a generated ID.
func NewNotification(userID string, kind NotificationKind, title, message string, data JSONMap) (*Notification, error) {
	id, err := NewID(NotificationIDPrefix)
	if err != nil {
		return nil, err
	}
	return &Notification{
		ID:      id,
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	}, nil
}

// Read reports whether the notification has been acknowledged.
func (n *Notification) Read() bool {
	return n.ReadAt != nil
}
