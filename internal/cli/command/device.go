package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/output"
)

// deviceRow is the device shape the CLI renders.
type deviceRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DeviceType   string `json:"device_type"`
	Model        string `json:"model"`
	Status       string `json:"status"`
	ConnectionID string `json:"connection_id"`
}

// DeviceCommand returns the device subcommand group.
func DeviceCommand() *cli.Command {
	return &cli.Command{
		Name:    "device",
		Aliases: []string{"dev"},
		Usage:   "Device management commands",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List registered devices",
				Action: deviceList,
			},
			{
				Name:  "register",
				Usage: "Register a new device",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true, Usage: "Device name"},
					&cli.StringFlag{Name: "type", Required: true, Usage: "Device type (ios, android, hdd, ...)"},
					&cli.StringFlag{Name: "model", Usage: "Device model"},
					&cli.StringFlag{Name: "serial", Usage: "Serial number"},
				},
				Action: deviceRegister,
			},
			{
				Name:      "connect",
				Usage:     "Mark a device as connected",
				ArgsUsage: "<device-id>",
				Action:    deviceConnect,
			},
			{
				Name:      "disconnect",
				Usage:     "Mark a device as disconnected",
				ArgsUsage: "<device-id>",
				Action:    deviceDisconnect,
			},
			{
				Name:      "delete",
				Usage:     "Delete a device",
				ArgsUsage: "<device-id>",
				Action:    deviceDelete,
			},
		},
	}
}

// requireArg returns the single positional argument or an error.
func requireArg(c *cli.Context, name string) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one argument: <%s>", name)
	}
	return c.Args().First(), nil
}

func deviceList(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Get(ctx, "/api/devices")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var devices []deviceRow
	if err := parse(resp, &devices); err != nil {
		return err
	}

	table := output.NewTable("ID", "NAME", "TYPE", "MODEL", "STATUS")
	for _, d := range devices {
		table.AddRow(d.ID, d.Name, d.DeviceType, d.Model, d.Status)
	}
	return render(c, devices, table)
}

func deviceRegister(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Post(ctx, "/api/devices", map[string]string{
		"name":          c.String("name"),
		"device_type":   c.String("type"),
		"model":         c.String("model"),
		"serial_number": c.String("serial"),
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var device deviceRow
	if err := parse(resp, &device); err != nil {
		return err
	}

	table := output.NewTable("ID", "NAME", "TYPE", "STATUS")
	table.AddRow(device.ID, device.Name, device.DeviceType, device.Status)
	return render(c, device, table)
}

func deviceConnect(c *cli.Context) error {
	id, err := requireArg(c, "device-id")
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Post(ctx, "/api/devices/"+id+"/connect", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var device deviceRow
	if err := parse(resp, &device); err != nil {
		return err
	}

	table := output.NewTable("ID", "STATUS", "CONNECTION")
	table.AddRow(device.ID, device.Status, device.ConnectionID)
	return render(c, device, table)
}

func deviceDisconnect(c *cli.Context) error {
	id, err := requireArg(c, "device-id")
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Post(ctx, "/api/devices/"+id+"/disconnect", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := parse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("device %s disconnected\n", id)
	return nil
}

func deviceDelete(c *cli.Context) error {
	id, err := requireArg(c, "device-id")
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx()
	defer cancel()

	resp, err := apiClient(c).Delete(ctx, "/api/devices/"+id)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := parse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("device %s deleted\n", id)
	return nil
}
