package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/common"
)

var accessCmd = &cobra.Command{
	Use:   "access <server_id>",
	Short: "Request an access token for a game server",
	Long: `Request a one-off access token for a game server. The game server
checks the token against the hub with 'verify'.`,
	Args: cobra.ExactArgs(1),
	RunE: runAccess,
}

func runAccess(cmd *cobra.Command, args []string) error {

	serverID, err := parseID("server id", args[0])
	if err != nil {
		return err
	}

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client, err := connectHub(ctx)
	if err != nil {
		return err
	}

	access, err := client.AccessServer(ctx, serverID)
	if err != nil {
		return fmt.Errorf("failed to access server %d: %w", serverID, err)
	}

	return printResult(cmd, access, func(out io.Writer) {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Access granted to server %d", access.ServerID)))
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Address: %s", access.ServerAddr)))
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Token:   %s", access.AccessToken)))
	})
}

var verifyCmd = &cobra.Command{
	Use:   "verify <server_id> <user_id> <token>",
	Short: "Check an access token presented to a game server",
	Args:  cobra.ExactArgs(3),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {

	serverID, err := parseID("server id", args[0])
	if err != nil {
		return err
	}

	userID, err := parseID("user id", args[1])
	if err != nil {
		return err
	}

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client, err := connectHub(ctx)
	if err != nil {
		return err
	}

	valid, err := client.VerifyToken(ctx, serverID, userID, args[2])
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}

	if !valid {
		fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("Token rejected"))
		return errTokenRejected
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Token valid"))
	return nil
}

func init() {
	rootCmd.AddCommand(accessCmd)
	rootCmd.AddCommand(verifyCmd)
}
