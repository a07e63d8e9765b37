// Package domain defines the core domain models for SyncSphere.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes follow the format SS-<AREA>-<NNNN>; the numeric suffix groups errors
// into the four kinds the API surfaces: not-found (4040), invalid state
// (4090), limit exceeded (4002), and internal (5xxx).
type DomainError struct {
	Code    string // Error code (e.g., "SS-RECV-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Recovery Errors (RECV)
// ============================================================================

var (
	// ErrRecoveryNotFound indicates the recovery session was not found
	// or is not owned by the requesting user.
	ErrRecoveryNotFound = NewDomainError("SS-RECV-4040", "recovery session not found")

	// ErrRecoveryInvalidState indicates an operation attempted in the
	// wrong session status (e.g. pausing a completed session).
	ErrRecoveryInvalidState = NewDomainError("SS-RECV-4090", "recovery session is in an invalid state for this operation")

	// ErrRecoveryLimitExceeded indicates the per-user concurrent recovery cap.
	ErrRecoveryLimitExceeded = NewDomainError("SS-RECV-4002", "maximum concurrent recovery sessions reached")

	// ErrDeviceNotConnected indicates the target device is not connected.
	ErrDeviceNotConnected = NewDomainError("SS-RECV-4001", "Device must be connected to start recovery")

	// ErrRecoveryValidation indicates recovery request validation failed.
	ErrRecoveryValidation = NewDomainError("SS-RECV-4000", "recovery validation failed")
)

// ============================================================================
// Transfer Errors (TRAN)
// ============================================================================

var (
	// ErrTransferNotFound indicates the transfer was not found or not owned.
	ErrTransferNotFound = NewDomainError("SS-TRAN-4040", "transfer not found")

	// ErrTransferInvalidState indicates an operation in the wrong status.
	ErrTransferInvalidState = NewDomainError("SS-TRAN-4090", "transfer is in an invalid state for this operation")

	// ErrTransferLimitExceeded indicates the per-user concurrent transfer cap.
	ErrTransferLimitExceeded = NewDomainError("SS-TRAN-4002", "maximum concurrent transfers reached")

	// ErrTransferValidation indicates transfer request validation failed.
	ErrTransferValidation = NewDomainError("SS-TRAN-4000", "transfer validation failed")

	// ErrTransferSameDevice indicates source and target devices are identical.
	ErrTransferSameDevice = NewDomainError("SS-TRAN-4001", "source and target devices must differ")
)

// ============================================================================
// Device Errors (DEVC)
// ============================================================================

var (
	// ErrDeviceNotFound indicates the device was not found or not owned.
	ErrDeviceNotFound = NewDomainError("SS-DEVC-4040", "device not found")

	// ErrDeviceValidation indicates device validation failed.
	ErrDeviceValidation = NewDomainError("SS-DEVC-4000", "device validation failed")

	// ErrDeviceConflict indicates a device with the same serial already exists.
	ErrDeviceConflict = NewDomainError("SS-DEVC-4090", "device already registered")
)

// ============================================================================
// User Errors (USER)
// ============================================================================

var (
	// ErrUserNotFound indicates the user was not found.
	ErrUserNotFound = NewDomainError("SS-USER-4040", "user not found")

	// ErrUserConflict indicates the email is already registered.
	ErrUserConflict = NewDomainError("SS-USER-4090", "email already registered")

	// ErrUserValidation indicates user validation failed.
	ErrUserValidation = NewDomainError("SS-USER-4000", "user validation failed")

	// ErrUserInactive indicates the account has been deactivated.
	ErrUserInactive = NewDomainError("SS-USER-4012", "account is deactivated")
)

// ============================================================================
// Subscription Errors (SUBS)
// ============================================================================

var (
	// ErrSubscriptionNotFound indicates no subscription exists for the user.
	ErrSubscriptionNotFound = NewDomainError("SS-SUBS-4040", "subscription not found")

	// ErrSubscriptionConflict indicates an active subscription already exists.
	ErrSubscriptionConflict = NewDomainError("SS-SUBS-4090", "active subscription already exists")
)

// ============================================================================
// Notification Errors (NOTF)
// ============================================================================

var (
	// ErrNotificationNotFound indicates the notification was not found or not owned.
	ErrNotificationNotFound = NewDomainError("SS-NOTF-4040", "notification not found")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrCredentialsInvalid indicates email/password mismatch.
	ErrCredentialsInvalid = NewDomainError("SS-AUTH-4011", "invalid credentials")

	// ErrTokenInvalid indicates the bearer token is missing, malformed or expired.
	ErrTokenInvalid = NewDomainError("SS-AUTH-4010", "invalid or expired token")

	// ErrPermissionDenied indicates insufficient permissions.
	ErrPermissionDenied = NewDomainError("SS-AUTH-4030", "permission denied")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an unexpected internal error.
	ErrInternalServer = NewDomainError("SS-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("SS-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("SS-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("SS-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("SS-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("SS-ARG-1002", "missing required argument")
)
