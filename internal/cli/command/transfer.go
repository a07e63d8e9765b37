package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/output"
)

// transferRow is the transfer shape the CLI renders.
type transferRow struct {
	ID             string `json:"id"`
	SourceDeviceID string `json:"source_device_id"`
	TargetDeviceID string `json:"target_device_id"`
	TransferType   string `json:"transfer_type"`
	Status         string `json:"status"`
	Phase          string `json:"phase"`
	Progress       int    `json:"progress"`
}

// TransferCommand returns the transfer subcommand group.
func TransferCommand() *cli.Command {
	return &cli.Command{
		Name:    "transfer",
		Aliases: []string{"tx"},
		Usage:   "Phone-to-phone transfer commands",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List transfers",
				Action: transferList,
			},
			{
				Name:  "start",
				Usage: "Start a transfer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Required: true, Usage: "Source device ID"},
					&cli.StringFlag{Name: "target", Required: true, Usage: "Target device ID"},
					&cli.StringFlag{Name: "type", Value: "full",
						Usage: "Transfer type (full, selective, clone)"},
					&cli.StringSliceFlag{Name: "data", Usage: "Data types for selective transfers"},
				},
				Action: transferStart,
			},
			{
				Name:      "status",
				Usage:     "Show one transfer",
				ArgsUsage: "<transfer-id>",
				Action:    transferStatus,
			},
			{
				Name:      "pause",
				Usage:     "Pause a running transfer",
				ArgsUsage: "<transfer-id>",
				Action:    transferAction("pause"),
			},
			{
				Name:      "resume",
				Usage:     "Restart a cancelled transfer",
				ArgsUsage: "<transfer-id>",
				Action:    transferAction("resume"),
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a transfer",
				ArgsUsage: "<transfer-id>",
				Action:    transferAction("cancel"),
			},
		},
	}
}

func transferTable(transfers ...transferRow) *output.Table {
	table := output.NewTable("ID", "SOURCE", "TARGET", "TYPE", "STATUS", "PHASE", "PROGRESS")
	for _, t := range transfers {
		table.AddRow(t.ID, t.SourceDeviceID, t.TargetDeviceID, t.TransferType,
			t.Status, t.Phase, fmt.Sprintf("%d%%", t.Progress))
	}
	return table
}

func transferList(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/api/transfers")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var list struct {
		Items []transferRow `json:"items"`
		Total int64         `json:"total"`
	}
	if err := parse(resp, &list); err != nil {
		return err
	}
	return render(c, list, transferTable(list.Items...))
}

func transferStart(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Post(ctx, "/api/transfers", map[string]any{
		"source_device_id": c.String("source"),
		"target_device_id": c.String("target"),
		"transfer_type":    c.String("type"),
		"data_types":       c.StringSlice("data"),
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var transfer transferRow
	if err := parse(resp, &transfer); err != nil {
		return err
	}
	return render(c, transfer, transferTable(transfer))
}

func transferStatus(c *cli.Context) error {
	id, err := requireArg(c, "transfer-id")
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/api/transfers/"+id)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var transfer transferRow
	if err := parse(resp, &transfer); err != nil {
		return err
	}
	return render(c, transfer, transferTable(transfer))
}

func transferAction(action string) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := requireArg(c, "transfer-id")
		if err != nil {
			return err
		}

		ctx, cancel := requestCtx()
		defer cancel()

		resp, err := apiClient(c).Post(ctx, "/api/transfers/"+id+"/"+action, nil)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if err := parse(resp, nil); err != nil {
			return err
		}

		fmt.Printf("transfer %s: %s\n", id, action)
		return nil
	}
}
