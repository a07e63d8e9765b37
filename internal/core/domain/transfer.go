// Package domain defines the core domain models for SyncSphere.
package domain

import "time"

// TransferType identifies what a phone-to-phone transfer carries.
type TransferType string

// Supported transfer types.
const (
	TransferFull      TransferType = "full"
	TransferSelective TransferType = "selective"
	TransferClone     TransferType = "clone"
)

// Valid reports whether t is a known transfer type.
func (t TransferType) Valid() bool {
	return t == TransferFull || t == TransferSelective || t == TransferClone
}

// TransferPhase is one of the three fixed transfer simulation stages.
type TransferPhase string

// Transfer phases and their progress bands.
const (
	PhasePreparing    TransferPhase = "preparing"    // 0-20
	PhaseTransferring TransferPhase = "transferring" // 20-90
	PhaseVerifying    TransferPhase = "verifying"    // 90-100
)

// TransferPhaseBand returns the [lo,hi] progress band for a phase.
func TransferPhaseBand(p TransferPhase) (lo, hi int) {
	switch p {
	case PhasePreparing:
		return 0, 20
	case PhaseTransferring:
		return 20, 90
	case PhaseVerifying:
		return 90, 100
	default:
		return 0, 0
	}
}

// TransferPhases lists the phases in execution order.
var TransferPhases = []TransferPhase{PhasePreparing, PhaseTransferring, PhaseVerifying}

// MaxConcurrentTransfers is the per-user cap on simultaneously active
// transfers, matching the recovery cap.
const MaxConcurrentTransfers = 2

// Transfer represents one phone-to-phone transfer between two owned devices.
type Transfer struct {
	ID               string        `json:"id" gorm:"primaryKey;size:31"`
	UserID           string        `json:"user_id" gorm:"size:31;index"`
	SourceDeviceID   string        `json:"source_device_id" gorm:"size:31;index"`
	TargetDeviceID   string        `json:"target_device_id" gorm:"size:31;index"`
	TransferType     TransferType  `json:"transfer_type" gorm:"size:16"`
	Status           SessionStatus `json:"status" gorm:"size:16;index"`
	Progress         int           `json:"progress"`
	CurrentPhase     TransferPhase `json:"current_phase,omitempty" gorm:"size:16"`
	DataTypes        JSONList      `json:"data_types,omitempty"`
	TotalItems       int           `json:"total_items"`
	TransferredItems int           `json:"transferred_items"`
	FailedItems      int           `json:"failed_items"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

// NewTransfer creates a pending transfer with a generated ID.
func NewTransfer(userID, sourceID, targetID string, transferType TransferType) (*Transfer, error) {
	id, err := NewID(TransferIDPrefix)
	if err != nil {
		return nil, err
	}
	return &Transfer{
		ID:             id,
		UserID:         userID,
		SourceDeviceID: sourceID,
		TargetDeviceID: targetID,
		TransferType:   transferType,
		Status:         StatusPending,
	}, nil
}

// OwnedBy reports whether the transfer belongs to userID.
func (t *Transfer) OwnedBy(userID string) bool {
	return t.UserID == userID
}

// SuccessRate returns transferred/total, or 0 when nothing was queued.
func (t *Transfer) SuccessRate() float64 {
	if t.TotalItems == 0 {
		return 0
	}
	return float64(t.TransferredItems) / float64(t.TotalItems)
}

// Validate validates the transfer fields.
func (t *Transfer) Validate() error {
	if t.UserID == "" {
		return ErrTransferValidation.WithDetails("user_id is required")
	}
	if t.SourceDeviceID == "" || t.TargetDeviceID == "" {
		return ErrTransferValidation.WithDetails("source and target device ids are required")
	}
	if t.SourceDeviceID == t.TargetDeviceID {
		return ErrTransferSameDevice
	}
	if !t.TransferType.Valid() {
		return ErrTransferValidation.WithDetails("unknown transfer_type: " + string(t.TransferType))
	}
	return nil
}
