// Package command provides CLI command definitions for syncsphere-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command talks to a
// syncsphere-server over its REST API using the --server and --token
// global flags.
package command
