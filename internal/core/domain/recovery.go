// Package domain defines the core domain models for SyncSphere.
package domain

import "time"

// RecoveryType identifies what kind of data loss a session recovers from.
type RecoveryType string

// Supported recovery types.
const (
	RecoveryDeletedFiles   RecoveryType = "deleted_files"
	RecoveryFormattedDrive RecoveryType = "formatted_drive"
	RecoveryCorruptedFiles RecoveryType = "corrupted_files"
	RecoverySystemCrash    RecoveryType = "system_crash"
	RecoveryVirusAttack    RecoveryType = "virus_attack"
	RecoveryPhysicalDamage RecoveryType = "physical_damage"
)

// Valid reports whether t is a known recovery type.
func (t RecoveryType) Valid() bool {
	switch t {
	case RecoveryDeletedFiles, RecoveryFormattedDrive, RecoveryCorruptedFiles,
		RecoverySystemCrash, RecoveryVirusAttack, RecoveryPhysicalDamage:
		return true
	}
	return false
}

// SessionStatus is the lifecycle status shared by recovery sessions
// and transfers.
type SessionStatus string

// Session lifecycle statuses.
const (
	StatusPending    SessionStatus = "pending"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
	StatusCancelled  SessionStatus = "cancelled"
)

// CanCancel reports whether a session in this status may be cancelled.
// Only pending and in_progress sessions are cancellable.
func (s SessionStatus) CanCancel() bool {
	return s == StatusPending || s == StatusInProgress
}

// CanPause reports whether a session in this status may be paused.
func (s SessionStatus) CanPause() bool {
	return s == StatusInProgress
}

// CanResume reports whether a session in this status may be resumed.
func (s SessionStatus) CanResume() bool {
	return s == StatusCancelled
}

// Terminal reports whether the status is final.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// RecoveryPhase is one of the three fixed simulation stages. Each phase
// contributes a fixed percentage band to the overall progress.
type RecoveryPhase string

// Simulation phases and their progress bands.
const (
	PhaseScanning   RecoveryPhase = "scanning"   // 0-30
	PhaseAnalyzing  RecoveryPhase = "analyzing"  // 30-50
	PhaseRecovering RecoveryPhase = "recovering" // 50-100
)

// PhaseBand returns the [lo,hi] progress band for a phase.
func PhaseBand(p RecoveryPhase) (lo, hi int) {
	switch p {
	case PhaseScanning:
		return 0, 30
	case PhaseAnalyzing:
		return 30, 50
	case PhaseRecovering:
		return 50, 100
	default:
		return 0, 0
	}
}

// RecoveryPhases lists the phases in execution order.
var RecoveryPhases = []RecoveryPhase{PhaseScanning, PhaseAnalyzing, PhaseRecovering}

// MaxConcurrentRecoveries is the per-user cap on simultaneously active
// (pending or in_progress) recovery sessions.
const MaxConcurrentRecoveries = 2

// RecoverySession represents one tracked data-recovery attempt for a device.
//
// Sessions are owned by a user and mutated exclusively through the phase
// driver and the cancel/pause/resume operations guarded by status checks.
type RecoverySession struct {
	ID             string        `json:"id" gorm:"primaryKey;size:31"`
	UserID         string        `json:"user_id" gorm:"size:31;index"`
	DeviceID       string        `json:"device_id" gorm:"size:31;index"`
	RecoveryType   RecoveryType  `json:"recovery_type" gorm:"size:32"`
	Status         SessionStatus `json:"status" gorm:"size:16;index"`
	Progress       int           `json:"progress"`
	CurrentPhase   RecoveryPhase `json:"current_phase,omitempty" gorm:"size:16"`
	TotalFiles     int           `json:"total_files"`
	RecoveredFiles int           `json:"recovered_files"`
	FailedFiles    int           `json:"failed_files"`
	ScanResults    JSONMap       `json:"scan_results,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
}

// NewRecoverySession creates a pending session with a generated ID.
func NewRecoverySession(userID, deviceID string, recoveryType RecoveryType) (*RecoverySession, error) {
	id, err := NewID(RecoveryIDPrefix)
	if err != nil {
		return nil, err
	}
	return &RecoverySession{
		ID:           id,
		UserID:       userID,
		DeviceID:     deviceID,
		RecoveryType: recoveryType,
		Status:       StatusPending,
	}, nil
}

// OwnedBy reports whether the session belongs to userID.
func (r *RecoverySession) OwnedBy(userID string) bool {
	return r.UserID == userID
}

// SuccessRate returns recovered/total, or 0 when no files were found.
func (r *RecoverySession) SuccessRate() float64 {
	if r.TotalFiles == 0 {
		return 0
	}
	return float64(r.RecoveredFiles) / float64(r.TotalFiles)
}

// Validate validates the session fields.
func (r *RecoverySession) Validate() error {
	if r.UserID == "" {
		return ErrRecoveryValidation.WithDetails("user_id is required")
	}
	if r.DeviceID == "" {
		return ErrRecoveryValidation.WithDetails("device_id is required")
	}
	if !r.RecoveryType.Valid() {
		return ErrRecoveryValidation.WithDetails("unknown recovery_type: " + string(r.RecoveryType))
	}
	if r.Progress < 0 || r.Progress > 100 {
		return ErrRecoveryValidation.WithDetails("progress must be within [0,100]")
	}
	return nil
}
