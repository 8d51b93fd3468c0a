package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/config"
	"github.com/stellarbit/hubclient/internal/hub"
	"github.com/stellarbit/hubclient/internal/sessions"
)

// Global configuration instance
var cfg *config.Config
var sessionManager *sessions.SessionManager

// errTokenRejected makes verify exit non-zero for a rejected token
var errTokenRejected = errors.New("access token rejected by hub")

// hubClient is the connected client for the current command, if any
var hubClient *hub.Client

// passwordPrompt asks for the hub password when none is configured.
// Replaced in tests.
var passwordPrompt = promptPassword

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	// Load configuration before any command runs
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	hubClient = nil

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Get the hub override from the flag
	hubEndpoint, err := cmd.Flags().GetString("hub")
	if err == nil && len(hubEndpoint) > 0 {
		if err := cfg.SetHubEndpoint(hubEndpoint); err != nil {
			return fmt.Errorf("failed to set hub endpoint: %w", err)
		}
	}

	username, err := cmd.Flags().GetString("user")
	if err == nil && len(username) > 0 {
		cfg.Hub.Username = username
	}

	// Load persisted session state before any command runs
	sessionManager = cfg.NewSessionManager()
	if cfg.Sessions.Persist {
		if err := sessionManager.Load(cfg.GetHubKey()); err != nil {
			logrus.WithError(err).Warnln("Failed to load stored hub session")
		}
	}

	return nil
}

// persistSessionE writes the session of the connected client back to disk
// so the next invocation can skip the login round trip.
func persistSessionE(_ *cobra.Command, _ []string) error {
	if hubClient == nil || cfg == nil || !cfg.Sessions.Persist {
		return nil
	}

	if err := sessionManager.SaveSession(cfg.GetHubKey(), hubClient.State()); err != nil {
		return fmt.Errorf("failed to save hub session: %w", err)
	}

	return nil
}

// connectHub returns a client for the configured hub. A stored session is
// resumed when it belongs to the configured user, otherwise a fresh login
// is made. Without a configured password a resumed client prompts for it
// once the session expires.
func connectHub(ctx context.Context) (*hub.Client, error) {

	if hubClient != nil {
		return hubClient, nil
	}

	if !cfg.HasCredentials() {
		return nil, errors.New("no hub username configured, set hub.username or pass --user")
	}

	if cfg.Sessions.Persist {
		if state, err := sessionManager.GetSession(cfg.GetHubKey()); err == nil {
			opts := cfg.HubOptions()
			if len(opts.Password) == 0 {
				opts.PasswordFunc = passwordPrompt
			}

			client, err := hub.Resume(opts, state)
			if err == nil {
				logrus.WithFields(logrus.Fields{
					"hub":      client.Endpoint(),
					"username": client.Username(),
				}).Debugln("Resumed stored hub session")

				hubClient = client
				return hubClient, nil
			}
			logrus.WithError(err).Debugln("Ignoring stored hub session")
		}
	}

	return loginHub(ctx)
}

// loginHub always performs a fresh login, prompting for the password when
// none is configured.
func loginHub(ctx context.Context) (*hub.Client, error) {

	if !cfg.HasCredentials() {
		return nil, errors.New("no hub username configured, set hub.username or pass --user")
	}

	if len(cfg.Hub.Password) == 0 {
		password, err := passwordPrompt(cfg.Hub.Username)
		if err != nil {
			return nil, err
		}
		cfg.Hub.Password = password
	}

	client, err := hub.Connect(ctx, cfg.HubOptions())
	if err != nil {
		var authErr *hub.AuthenticationError
		if errors.As(err, &authErr) {
			return nil, fmt.Errorf("hub rejected the credentials for %s", cfg.Hub.Username)
		}
		return nil, err
	}

	hubClient = client
	return hubClient, nil
}

func promptPassword(username string) (string, error) {
	var password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("Enter the hub password for %s", username)).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if len(s) == 0 {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("password prompt cancelled: %w", err)
	}

	return password, nil
}

// parseID parses a numeric hub identifier given on the command line. Signs
// are rejected; ids are never negative.
func parseID(name string, value string) (int64, error) {
	id, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return int64(id), nil
}

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Stellar Bit hub client",
	Long: `hubctl talks to a Stellar Bit hub: list game servers, look up users,
request server access tokens, verify tokens and keep a game server listed.

The hub session is stored on disk and reused until it expires.`,
	PersistentPreRunE:  preRunConfigE,
	PersistentPostRunE: persistSessionE,
	SilenceUsage:       true,
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/stellarbit/config.yaml)")
	rootCmd.PersistentFlags().String("hub", "", "Override the hub URL (e.g., http://localhost:3000/)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Override the hub username")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}
