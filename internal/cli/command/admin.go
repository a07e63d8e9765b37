package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Bollo444/SyncSphere-sub004/internal/cli/output"
)

// AdminCommand returns the admin subcommand group. These endpoints
// require a token with the admin role.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrative commands",
		Subcommands: []*cli.Command{
			{
				Name:  "users",
				Usage: "List user accounts",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Page size"},
					&cli.IntFlag{Name: "offset", Usage: "Page offset"},
				},
				Action: adminUsers,
			},
			{
				Name:      "deactivate",
				Usage:     "Deactivate a user account",
				ArgsUsage: "<user-id>",
				Action:    adminSetActive(false),
			},
			{
				Name:      "activate",
				Usage:     "Reactivate a user account",
				ArgsUsage: "<user-id>",
				Action:    adminSetActive(true),
			},
		},
	}
}

func adminUsers(c *cli.Context) error {
	ctx, cancel := requestCtx()
	defer cancel()

	path := fmt.Sprintf("/admin/v1/users?limit=%d&offset=%d", c.Int("limit"), c.Int("offset"))
	resp, err := apiClient(c).Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var list struct {
		Items []struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Role     string `json:"role"`
			Tier     string `json:"tier"`
			IsActive bool   `json:"is_active"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	if err := parse(resp, &list); err != nil {
		return err
	}

	table := output.NewTable("ID", "EMAIL", "ROLE", "TIER", "ACTIVE")
	for _, u := range list.Items {
		table.AddRow(u.ID, u.Email, u.Role, u.Tier, u.IsActive)
	}
	return render(c, list, table)
}

func adminSetActive(active bool) cli.ActionFunc {
	action := "deactivate"
	if active {
		action = "activate"
	}
	return func(c *cli.Context) error {
		id, err := requireArg(c, "user-id")
		if err != nil {
			return err
		}

		ctx, cancel := requestCtx()
		defer cancel()

		resp, err := apiClient(c).Post(ctx, "/admin/v1/users/"+id+"/"+action, nil)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if err := parse(resp, nil); err != nil {
			return err
		}

		fmt.Printf("user %s: %sd\n", id, action)
		return nil
	}
}
