package handler

import (
	"net/http"
	"time"

	"github.com/Bollo444/SyncSphere-sub004/internal/infra/buildinfo"
)

// handleAdminStatus handles GET /admin/v1/status/summary.
func (h *Handler) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	summary := StatusSummary{
		Version:       info.Version,
		GoVersion:     info.GoVersion,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
	if h.recoveryReg != nil {
		summary.ActiveRecoveries = h.recoveryReg.Count()
	}
	if h.transferReg != nil {
		summary.ActiveTransfers = h.transferReg.Count()
	}
	h.writeJSON(w, r, http.StatusOK, summary)
}

// handleAdminListUsers handles GET /admin/v1/users.
func (h *Handler) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	users, total, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListResponse{
		Items: users, Total: total, Limit: limit, Offset: offset,
	})
}

// handleAdminDeactivateUser handles POST /admin/v1/users/{id}/deactivate.
func (h *Handler) handleAdminDeactivateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.SetActive(r.Context(), r.PathValue("id"), false); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"active": false})
}

// handleAdminActivateUser handles POST /admin/v1/users/{id}/activate.
func (h *Handler) handleAdminActivateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.SetActive(r.Context(), r.PathValue("id"), true); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"active": true})
}
