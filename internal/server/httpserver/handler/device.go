package handler

import (
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
)

// handleRegisterDevice handles POST /api/devices.
func (h *Handler) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req RegisterDeviceRequest
	if !h.decode(w, r, &req) {
		return
	}

	device, err := h.devices.Register(r.Context(), &service.RegisterDeviceRequest{
		UserID:       id.UserID,
		Name:         req.Name,
		DeviceType:   req.DeviceType,
		Model:        req.Model,
		OSVersion:    req.OSVersion,
		SerialNumber: req.SerialNumber,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, device)
}

// handleListDevices handles GET /api/devices.
func (h *Handler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	devices, err := h.devices.List(r.Context(), id.UserID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, devices)
}

// handleGetDevice handles GET /api/devices/{id}.
func (h *Handler) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	device, err := h.devices.GetOwned(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, device)
}

// handleUpdateDevice handles PUT /api/devices/{id}.
func (h *Handler) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req UpdateDeviceRequest
	if !h.decode(w, r, &req) {
		return
	}

	device, err := h.devices.Update(r.Context(), id.UserID, r.PathValue("id"), &service.UpdateDeviceRequest{
		Name:         req.Name,
		OSVersion:    req.OSVersion,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, device)
}

// handleDeleteDevice handles DELETE /api/devices/{id}.
func (h *Handler) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.devices.Delete(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// handleConnectDevice handles POST /api/devices/{id}/connect.
func (h *Handler) handleConnectDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	device, err := h.devices.Connect(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, device)
}

// handleDisconnectDevice handles POST /api/devices/{id}/disconnect.
func (h *Handler) handleDisconnectDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.devices.Disconnect(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"disconnected": true})
}
