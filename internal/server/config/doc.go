// Package config defines the server configuration structure.
//
// Configuration is loaded from an optional YAML file and
// SYNCSPHERE_-prefixed environment variables by infra/confloader,
// verified by Verify, and logged via Sanitize so secrets never reach
// the logs.
package config
