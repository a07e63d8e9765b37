package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/output"
)

// sessionRow is the recovery session shape the CLI renders.
type sessionRow struct {
	ID           string `json:"id"`
	DeviceID     string `json:"device_id"`
	RecoveryType string `json:"recovery_type"`
	Status       string `json:"status"`
	Phase        string `json:"phase"`
	Progress     int    `json:"progress"`
}

// RecoveryCommand returns the recovery subcommand group.
func RecoveryCommand() *cli.Command {
	return &cli.Command{
		Name:    "recovery",
		Aliases: []string{"rec"},
		Usage:   "Data recovery session commands",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recovery sessions",
				Action: recoveryList,
			},
			{
				Name:  "start",
				Usage: "Start a recovery session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "device", Required: true, Usage: "Device ID"},
					&cli.StringFlag{Name: "type", Required: true,
						Usage: "Recovery type (deleted_files, formatted_drive, ...)"},
				},
				Action: recoveryStart,
			},
			{
				Name:      "status",
				Usage:     "Show one session",
				ArgsUsage: "<session-id>",
				Action:    recoveryStatus,
			},
			{
				Name:      "pause",
				Usage:     "Pause a running session",
				ArgsUsage: "<session-id>",
				Action:    recoveryAction("pause"),
			},
			{
				Name:      "resume",
				Usage:     "Restart a cancelled session",
				ArgsUsage: "<session-id>",
				Action:    recoveryAction("resume"),
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a session",
				ArgsUsage: "<session-id>",
				Action:    recoveryAction("cancel"),
			},
		},
	}
}

func sessionTable(sessions ...sessionRow) *output.Table {
	table := output.NewTable("ID", "DEVICE", "TYPE", "STATUS", "PHASE", "PROGRESS")
	for _, s := range sessions {
		table.AddRow(s.ID, s.DeviceID, s.RecoveryType, s.Status, s.Phase,
			fmt.Sprintf("%d%%", s.Progress))
	}
	return table
}

func recoveryList(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/api/recovery")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var list struct {
		Items []sessionRow `json:"items"`
		Total int64        `json:"total"`
	}
	if err := parse(resp, &list); err != nil {
		return err
	}
	return render(c, list, sessionTable(list.Items...))
}

func recoveryStart(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Post(ctx, "/api/recovery", map[string]string{
		"device_id":     c.String("device"),
		"recovery_type": c.String("type"),
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var session sessionRow
	if err := parse(resp, &session); err != nil {
		return err
	}
	return render(c, session, sessionTable(session))
}

func recoveryStatus(c *cli.Context) error {
	id, err := requireArg(c, "session-id")
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/api/recovery/"+id)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var session sessionRow
	if err := parse(resp, &session); err != nil {
		return err
	}
	return render(c, session, sessionTable(session))
}

// recoveryAction builds the pause/resume/cancel actions, which differ
// only in the path suffix.
func recoveryAction(action string) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := requireArg(c, "session-id")
		if err != nil {
			return err
		}

		ctx, cancel := requestCtx()
		defer cancel()

		resp, err := apiClient(c).Post(ctx, "/api/recovery/"+id+"/"+action, nil)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if err := parse(resp, nil); err != nil {
			return err
		}

		fmt.Printf("recovery %s: %s\n", id, action)
		return nil
	}
}
