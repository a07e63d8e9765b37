// Package connection provides the HTTP client syncsphere-cli uses to
// talk to a syncsphere-server.
//
// Responses arrive wrapped in the server's standard envelope;
// ParseResponse unwraps the data payload and turns error envelopes
// into Go errors carrying the server's error code.
package connection
