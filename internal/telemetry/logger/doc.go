// Package logger provides structured logging for SyncSphere.
//
// It wraps log/slog:
//
//   - logger.go: handler construction and level control
//   - context.go: request-ID propagation from context
//   - redact.go: sensitive data redaction
//
// Passwords, tokens, and bcrypt hashes never reach the log output in
// the clear.
package logger
