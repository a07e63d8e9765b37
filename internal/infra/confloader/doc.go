// Package confloader loads server configuration.
//
// It merges YAML files and SYNCSPHERE_-prefixed environment variables
// via koanf, unmarshals into the typed config structs, and optionally
// watches the config file for changes so the server can reload log
// levels at runtime.
//
// Priority (highest to lowest):
//
//  1. Environment variables
//  2. Configuration file
//  3. Default values
package confloader
