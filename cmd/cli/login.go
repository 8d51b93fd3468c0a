package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/common"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the hub",
	Long:  "Logs in to the hub with the configured credentials and stores the session for later commands",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client, err := loginHub(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render("Logged in"))
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Hub:  %s", client.Endpoint())))
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("User: %s (id %d)", client.Username(), client.UserID())))

	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored hub session",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {

	hubKey := cfg.GetHubKey()

	if _, ok := sessionManager.Hubs[hubKey]; !ok {
		fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("No stored session for "+hubKey))
		return nil
	}

	if err := sessionManager.RemoveSession(hubKey); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Logged out of "+hubKey))
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
