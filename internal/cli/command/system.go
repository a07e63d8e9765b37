package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/output"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "System status commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "status",
				Usage:  "Show the admin status summary",
				Action: systemStatus,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := parse(resp, &health); err != nil {
		return err
	}

	table := output.NewTable("STATUS", "VERSION")
	table.AddRow(health.Status, health.Version)
	return render(c, health, table)
}

func systemStatus(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/admin/v1/status/summary")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var summary struct {
		Version          string `json:"version"`
		GoVersion        string `json:"go_version"`
		ActiveRecoveries int    `json:"active_recoveries"`
		ActiveTransfers  int    `json:"active_transfers"`
		UptimeSeconds    int64  `json:"uptime_seconds"`
	}
	if err := parse(resp, &summary); err != nil {
		return err
	}

	table := output.NewTable("VERSION", "GO", "RECOVERIES", "TRANSFERS", "UPTIME_S")
	table.AddRow(summary.Version, summary.GoVersion,
		summary.ActiveRecoveries, summary.ActiveTransfers, summary.UptimeSeconds)
	return render(c, summary, table)
}
