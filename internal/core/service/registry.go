package service

import (
	"context"
	"sync"
	"time"
)

// ScanHandle is the in-process control block for one running
// simulation: the pause flag the phase loop polls and the cancel
// function that stops it at the next step boundary.
type ScanHandle struct {
	startedAt time.Time
	cancel    context.CancelFunc

	mu     sync.Mutex
	paused bool
	phase  string
}

// StartedAt returns when the simulation was registered.
func (h *ScanHandle) StartedAt() time.Time { return h.startedAt }

// Pause flips the pause flag. The phase loop checks it before every
// step and returns early, leaving the persisted status untouched.
func (h *ScanHandle) Pause() {
	h.mu.Lock()
	h.paused = true
	h.mu.Unlock()
}

// Paused reports whether the simulation has been asked to pause.
func (h *ScanHandle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

// SetPhase records the phase the loop is currently driving.
func (h *ScanHandle) SetPhase(phase string) {
	h.mu.Lock()
	h.phase = phase
	h.mu.Unlock()
}

// Phase returns the phase the loop last reported.
func (h *ScanHandle) Phase() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// Cancel stops the simulation at its next step boundary.
func (h *ScanHandle) Cancel() { h.cancel() }

// Registry tracks running simulations by session ID. It is transient:
// entries live only for the process lifetime and are removed on
// completion, cancellation, or failure. A restarted process loses
// pause/cancel coordination for sessions that were mid-flight.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*ScanHandle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*ScanHandle)}
}

// Register creates a handle for id. The second return is false when a
// simulation for id is already registered.
func (r *Registry) Register(id string, cancel context.CancelFunc) (*ScanHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handles[id]; exists {
		return nil, false
	}
	h := &ScanHandle{startedAt: time.Now(), cancel: cancel}
	r.handles[id] = h
	return h, true
}

// Lookup returns the handle for id, if registered.
func (r *Registry) Lookup(id string) (*ScanHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

// Remove unregisters id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.handles, id)
	r.mu.Unlock()
}

// Count returns the number of running simulations.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
