package handler

import (
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// handleSubscribe handles POST /api/subscriptions.
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req SubscribeRequest
	if !h.decode(w, r, &req) {
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), id.UserID, domain.SubscriptionTier(req.Tier))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, sub)
}

// handleListSubscriptions handles GET /api/subscriptions. The current
// subscription plus history.
func (h *Handler) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	history, err := h.subscriptions.History(r.Context(), id.UserID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	// Absence of an active subscription is not an error here.
	var current *domain.Subscription
	if sub, err := h.subscriptions.Current(r.Context(), id.UserID); err == nil {
		current = sub
	} else if !domain.IsDomainError(err, domain.ErrSubscriptionNotFound.Code) {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"current": current,
		"history": history,
	})
}

// handleCancelSubscription handles DELETE /api/subscriptions.
func (h *Handler) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.subscriptions.Cancel(r.Context(), id.UserID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"cancelled": true})
}
