// Package handler implements the SyncSphere REST API endpoints.
//
// Every JSON response uses the standard envelope
// {code, message, request_id, timestamp, data}; service errors map to
// HTTP statuses through their SS-<AREA>-<NNNN> code suffixes.
package handler
