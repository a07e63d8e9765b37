package handler

import (
	"time"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// Response is the standard API response envelope. All JSON responses
// use this format (except /metrics, which uses Prometheus exposition).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success envelope.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error envelope.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// RegisterRequest is the request body for POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterDeviceRequest is the request body for POST /api/devices.
type RegisterDeviceRequest struct {
	Name         string         `json:"name"`
	DeviceType   string         `json:"device_type"`
	Model        string         `json:"model,omitempty"`
	OSVersion    string         `json:"os_version,omitempty"`
	SerialNumber string         `json:"serial_number,omitempty"`
	Capabilities domain.JSONMap `json:"capabilities,omitempty"`
}

// UpdateDeviceRequest is the request body for PUT /api/devices/{id}.
type UpdateDeviceRequest struct {
	Name         string         `json:"name,omitempty"`
	OSVersion    string         `json:"os_version,omitempty"`
	Capabilities domain.JSONMap `json:"capabilities,omitempty"`
}

// StartRecoveryRequest is the request body for POST /api/recovery.
type StartRecoveryRequest struct {
	DeviceID     string         `json:"device_id"`
	RecoveryType string         `json:"recovery_type"`
	Options      domain.JSONMap `json:"options,omitempty"`
}

// StartTransferRequest is the request body for POST /api/transfers.
type StartTransferRequest struct {
	SourceDeviceID string   `json:"source_device_id"`
	TargetDeviceID string   `json:"target_device_id"`
	TransferType   string   `json:"transfer_type"`
	DataTypes      []string `json:"data_types,omitempty"`
}

// UpdateProfileRequest is the request body for PUT /api/users/me.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// SubscribeRequest is the request body for POST /api/subscriptions.
type SubscribeRequest struct {
	Tier string `json:"tier"`
}

// ListResponse is the generic paginated list payload.
type ListResponse struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// StatusSummary is the payload for GET /admin/v1/status/summary.
type StatusSummary struct {
	Version          string `json:"version"`
	GoVersion        string `json:"go_version"`
	ActiveRecoveries int    `json:"active_recoveries"`
	ActiveTransfers  int    `json:"active_transfers"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}
