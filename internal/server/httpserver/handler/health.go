package handler

import (
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/infra/buildinfo"
)

// handleHealth handles GET /health. Liveness only.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleReady handles GET /ready. The process serves traffic once the
// handler exists; dependency checks happen at startup.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
