package command

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/connection"
	"github.com/Bollo444/SyncSphere-sub004/internal/cli/output"
	"github.com/Bollo444/SyncSphere-sub004/internal/infra/buildinfo"
)

// requestTimeout bounds one API call.
const requestTimeout = 30 * time.Second

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "syncsphere-cli",
		Usage:   "SyncSphere command-line management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AuthCommand(),
			DeviceCommand(),
			RecoveryCommand(),
			TransferCommand(),
			AdminCommand(),
			SystemCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "SyncSphere server address (e.g., localhost:8080)",
			EnvVars: []string{"SYNCSPHERE_SERVER"},
			Value:   "localhost:8080",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Bearer token for authentication",
			EnvVars: []string{"SYNCSPHERE_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
	}
}

// apiClient builds a client from the global flags.
func apiClient(c *cli.Context) *connection.Client {
	return connection.NewClient(c.String("server"), c.String("token"))
}

// requestCtx returns a context bounding one API call.
func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// parse unwraps a server response envelope into target.
func parse(resp *http.Response, target any) error {
	return connection.ParseResponse(resp, target)
}

// render writes data as JSON when --output=json, otherwise renders the
// table.
func render(c *cli.Context, data any, table *output.Table) error {
	if output.Format(c.String("output")) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, data)
	}
	return (&output.TableFormatter{}).Format(os.Stdout, table)
}
