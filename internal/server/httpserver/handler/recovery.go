package handler

import (
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
)

// handleStartRecovery handles POST /api/recovery.
func (h *Handler) handleStartRecovery(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req StartRecoveryRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.recoveries.Start(r.Context(), &service.StartRecoveryRequest{
		UserID:       id.UserID,
		DeviceID:     req.DeviceID,
		RecoveryType: domain.RecoveryType(req.RecoveryType),
		Options:      req.Options,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.recordSimulation(h.metricsStartedRecovery)
	h.writeJSON(w, r, http.StatusCreated, session)
}

// handleListRecoveries handles GET /api/recovery.
func (h *Handler) handleListRecoveries(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	sessions, total, err := h.recoveries.List(r.Context(), id.UserID, limit, offset)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListResponse{
		Items: sessions, Total: total, Limit: limit, Offset: offset,
	})
}

// handleGetRecovery handles GET /api/recovery/{id}.
func (h *Handler) handleGetRecovery(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	session, err := h.recoveries.Get(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, session)
}

// handlePauseRecovery handles POST /api/recovery/{id}/pause.
func (h *Handler) handlePauseRecovery(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.recoveries.Pause(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"paused": true})
}

// handleResumeRecovery handles POST /api/recovery/{id}/resume.
func (h *Handler) handleResumeRecovery(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	session, err := h.recoveries.Resume(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.recordSimulation(nil)
	h.writeJSON(w, r, http.StatusOK, session)
}

// handleCancelRecovery handles POST /api/recovery/{id}/cancel.
func (h *Handler) handleCancelRecovery(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.recoveries.Cancel(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.recordSimulation(nil)
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"cancelled": true})
}

// recordSimulation updates the start counter (when inc is non-nil) and
// the active-simulations gauge from the registries.
func (h *Handler) recordSimulation(inc func()) {
	if h.metrics == nil {
		return
	}
	if inc != nil {
		inc()
	}
	h.metrics.ActiveSimulations.Set(float64(h.activeSimulations()))
}

// activeSimulations counts registered drivers across both registries.
func (h *Handler) activeSimulations() int {
	n := 0
	if h.recoveryReg != nil {
		n += h.recoveryReg.Count()
	}
	if h.transferReg != nil {
		n += h.transferReg.Count()
	}
	return n
}

func (h *Handler) metricsStartedRecovery() { h.metrics.RecoveriesStarted.Inc() }
func (h *Handler) metricsStartedTransfer() { h.metrics.TransfersStarted.Inc() }
