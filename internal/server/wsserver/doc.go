// Package wsserver pushes recovery, transfer, and device events to
// clients over WebSocket.
//
// The hub subscribes to the in-process event bus and fans each event
// out to the connections owned by the event's user. Slow clients drop
// events rather than stall delivery to everyone else.
package wsserver
