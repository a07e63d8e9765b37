// Package main provides the entry point for syncsphere-cli.
//
// syncsphere-cli is the command-line management tool for a
// syncsphere-server: accounts, devices, recovery sessions, transfers,
// and admin operations over the REST API.
package main

import (
	"fmt"
	"os"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
