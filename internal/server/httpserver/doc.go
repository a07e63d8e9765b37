// Package httpserver provides the SyncSphere HTTP server.
//
// It wires the REST handlers behind a middleware chain
// (Recover → CORS → RequestID → RateLimit → Metrics → Audit → Auth)
// and exposes the WebSocket upgrade endpoint behind the same bearer
// authentication.
package httpserver
