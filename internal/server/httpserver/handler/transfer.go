package handler

import (
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
)

// handleStartTransfer handles POST /api/transfers.
func (h *Handler) handleStartTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req StartTransferRequest
	if !h.decode(w, r, &req) {
		return
	}

	transfer, err := h.transfers.Start(r.Context(), &service.StartTransferRequest{
		UserID:         id.UserID,
		SourceDeviceID: req.SourceDeviceID,
		TargetDeviceID: req.TargetDeviceID,
		TransferType:   domain.TransferType(req.TransferType),
		DataTypes:      req.DataTypes,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.recordSimulation(h.metricsStartedTransfer)
	h.writeJSON(w, r, http.StatusCreated, transfer)
}

// handleListTransfers handles GET /api/transfers.
func (h *Handler) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	transfers, total, err := h.transfers.List(r.Context(), id.UserID, limit, offset)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListResponse{
		Items: transfers, Total: total, Limit: limit, Offset: offset,
	})
}

// handleGetTransfer handles GET /api/transfers/{id}.
func (h *Handler) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	transfer, err := h.transfers.Get(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, transfer)
}

// handlePauseTransfer handles POST /api/transfers/{id}/pause.
func (h *Handler) handlePauseTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.transfers.Pause(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"paused": true})
}

// handleResumeTransfer handles POST /api/transfers/{id}/resume.
func (h *Handler) handleResumeTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	transfer, err := h.transfers.Resume(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.recordSimulation(nil)
	h.writeJSON(w, r, http.StatusOK, transfer)
}

// handleCancelTransfer handles POST /api/transfers/{id}/cancel.
func (h *Handler) handleCancelTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.transfers.Cancel(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.recordSimulation(nil)
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"cancelled": true})
}
