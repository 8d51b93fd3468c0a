package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/common"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List the game servers known to the hub",
	RunE:  runServers,
}

func runServers(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client, err := connectHub(ctx)
	if err != nil {
		return err
	}

	servers, err := client.Servers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	return printResult(cmd, servers, func(out io.Writer) {
		fmt.Fprintln(out, headerStyle.Render("Game Servers"))
		fmt.Fprintln(out)

		if len(servers) == 0 {
			fmt.Fprintln(out, infoStyle.Render("No servers registered"))
			return
		}

		for _, server := range servers {
			var status string
			if server.Online() {
				status = onlineStyle.Render("ONLINE  " + server.GetAddr())
			} else {
				status = offlineStyle.Render("OFFLINE")
			}

			owner := ""
			if server.OwnerID == client.UserID() {
				owner = warningStyle.Render(" (yours)")
			}

			fmt.Fprintf(out, "%-6d %-24s %s%s\n", server.ID, server.Name, status, owner)
		}
	})
}

func init() {
	rootCmd.AddCommand(serversCmd)
}
