// Package metric provides Prometheus metrics for SyncSphere.
//
//   - prometheus.go: metric registry and the /metrics HTTP handler
//   - recorder.go: event-bus consumer that feeds the simulation counters
//
// Metrics include request latency histograms, simulation counters,
// WebSocket connection gauges, and cache hit/miss counters.
package metric
