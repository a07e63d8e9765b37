package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
)

// NotificationRepository defines the storage interface for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// NotificationService persists per-user notifications. Run consumes
// completion and failure events from the bus and turns them into
// stored notifications; the WebSocket hub delivers the live copies.
type NotificationService struct {
	notifications NotificationRepository
	logger        *slog.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifications NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// Run consumes events from ch until it is closed or ctx is cancelled.
// Intended to run as a goroutine for the process lifetime.
func (s *NotificationService) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, e)
		}
	}
}

// handle converts one event into a stored notification. Progress and
// device events are live-only and not persisted.
func (s *NotificationService) handle(ctx context.Context, e events.Event) {
	var (
		kind    domain.NotificationKind
		title   string
		message string
	)

	switch e.Kind {
	case events.RecoveryCompleted:
		kind = domain.NotifyRecoveryCompleted
		title = "Recovery completed"
		message = fmt.Sprintf("Recovered %v of %v files",
			e.Payload["recovered_files"], e.Payload["total_files"])
	case events.RecoveryFailed:
		kind = domain.NotifyRecoveryFailed
		title = "Recovery failed"
		message = fmt.Sprintf("Recovery stopped: %v", e.Payload["error"])
	case events.TransferCompleted:
		kind = domain.NotifyTransferCompleted
		title = "Transfer completed"
		message = fmt.Sprintf("Transferred %v of %v items",
			e.Payload["transferred_items"], e.Payload["total_items"])
	case events.TransferFailed:
		kind = domain.NotifyTransferFailed
		title = "Transfer failed"
		message = fmt.Sprintf("Transfer stopped: %v", e.Payload["error"])
	default:
		return
	}

	n, err := domain.NewNotification(e.UserID, kind, title, message, domain.JSONMap(e.Payload))
	if err != nil {
		s.logger.Error("building notification failed", "kind", e.Kind, "error", err)
		return
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		// Notification persistence is best-effort; the primary
		// operation already succeeded.
		s.logger.Error("storing notification failed",
			"notification_id", n.ID, "user_id", e.UserID, "error", err)
	}
}

// List retrieves a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead acknowledges one notification.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

// MarkAllRead acknowledges every unread notification for a user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}
