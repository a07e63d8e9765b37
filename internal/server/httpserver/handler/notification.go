package handler

import (
	"net/http"
)

// handleListNotifications handles GET /api/notifications. The
// unread_only query parameter filters to unacknowledged entries.
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	notifications, total, err := h.notifications.List(r.Context(), id.UserID, unreadOnly, limit, offset)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListResponse{
		Items: notifications, Total: total, Limit: limit, Offset: offset,
	})
}

// handleMarkNotificationRead handles POST /api/notifications/{id}/read.
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"read": true})
}

// handleMarkAllNotificationsRead handles POST /api/notifications/read-all.
func (h *Handler) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	count, err := h.notifications.MarkAllRead(r.Context(), id.UserID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]int64{"marked_read": count})
}
