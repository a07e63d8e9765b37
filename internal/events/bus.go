// Package events provides the in-process event bus that decouples the
// recovery and transfer simulators from the notification and WebSocket
// layers.
//
// The simulators publish; the notification service and the WebSocket
// hub subscribe. Publishing never blocks the simulator: slow
// subscribers drop events rather than stall a phase loop.
package events

import (
	"log/slog"
	"sync"
	"time"
)

// Event kinds published by the core services.
const (
	RecoveryProgress   = "recovery.progress"
	RecoveryCompleted  = "recovery.completed"
	RecoveryFailed     = "recovery.failed"
	TransferProgress   = "transfer.progress"
	TransferCompleted  = "transfer.completed"
	TransferFailed     = "transfer.failed"
	DeviceConnected    = "device.connected"
	DeviceDisconnected = "device.disconnected"
)

// Event is one message on the bus. Payload keys are event-kind
// specific; completion events carry recovery_id/user_id/success_rate.
type Event struct {
	Kind    string         `json:"kind"`
	UserID  string         `json:"user_id"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// Publisher is the outbound interface the simulators depend on.
type Publisher interface {
	Publish(e Event)
}

// subscriberBuffer is the per-subscriber channel depth. Progress events
// are high-frequency and disposable, so a shallow buffer is fine.
const subscriberBuffer = 256

// Bus is a fan-out publisher with drop-on-full delivery.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	logger *slog.Logger
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Publish delivers e to every subscriber. If a subscriber's buffer is
// full the event is dropped for that subscriber and the drop is logged.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("event dropped for slow subscriber",
				"kind", e.Kind, "subscriber", id)
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close unregisters all subscribers and closes their channels.
// Publish becomes a no-op afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
