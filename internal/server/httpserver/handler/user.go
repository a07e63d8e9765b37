package handler

import (
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
)

// handleGetProfile handles GET /api/users/me.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), id.UserID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, user)
}

// handleUpdateProfile handles PUT /api/users/me.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), id.UserID, &service.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, user)
}
