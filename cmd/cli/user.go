package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/common"
	"github.com/stellarbit/hubclient/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user [id]",
	Short: "Look up a hub user by id or username",
	Long: `Look up a hub user by numeric id, or by name with --username.
Without arguments the logged in user is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUser,
}

func runUser(cmd *cobra.Command, args []string) error {

	username, _ := cmd.Flags().GetString("username")
	if len(username) > 0 && len(args) > 0 {
		return errors.New("pass either a user id or --username, not both")
	}

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client, err := connectHub(ctx)
	if err != nil {
		return err
	}

	var user *models.UserData

	switch {
	case len(username) > 0:
		user, err = client.UserByUsername(ctx, username)
	case len(args) == 1:
		id, parseErr := parseID("user id", args[0])
		if parseErr != nil {
			return parseErr
		}
		user, err = client.User(ctx, id)
	default:
		user, err = client.Me(ctx)
	}

	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	return printResult(cmd, user, func(out io.Writer) {
		fmt.Fprintln(out, headerStyle.Render(user.Username))
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("ID: %d", user.ID)))
	})
}

func init() {
	userCmd.Flags().String("username", "", "Look the user up by name instead of id")

	rootCmd.AddCommand(userCmd)
}
