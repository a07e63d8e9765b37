// Package output provides output formatting for syncsphere-cli.
//
// Commands render results through a Formatter selected by the --output
// flag: an aligned text table by default, or indented JSON for
// scripting.
package output
