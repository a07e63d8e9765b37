package metric

import (
	"context"

	"github.com/Bollo444/SyncSphere-sub004/internal/events"
)

// Recorder feeds the simulation counters from bus events, keeping the
// core services free of metrics plumbing.
type Recorder struct {
	registry *Registry
}

// NewRecorder creates a Recorder over registry.
func NewRecorder(registry *Registry) *Recorder {
	return &Recorder{registry: registry}
}

// Run consumes events from ch until it is closed or ctx is cancelled.
func (r *Recorder) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			r.record(e)
		}
	}
}

func (r *Recorder) record(e events.Event) {
	switch e.Kind {
	case events.RecoveryCompleted:
		r.registry.RecoveriesCompleted.Inc()
	case events.RecoveryFailed:
		r.registry.RecoveriesFailed.Inc()
	case events.TransferCompleted:
		r.registry.TransfersCompleted.Inc()
	case events.TransferFailed:
		r.registry.TransfersFailed.Inc()
	}
}
