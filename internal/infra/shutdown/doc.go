// Package shutdown coordinates graceful process termination.
//
// The server registers named cleanup hooks (HTTP listener, WebSocket
// hub, simulators, cache, database) during startup; on SIGINT/SIGTERM
// the handler runs them in reverse registration order under a shared
// timeout, so dependents stop before their dependencies.
package shutdown
