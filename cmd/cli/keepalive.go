package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/common"
	"github.com/stellarbit/hubclient/internal/heartbeat"
)

const minKeepAliveInterval = time.Second

var keepAliveCmd = &cobra.Command{
	Use:   "keep-alive <server_id> <addr>",
	Short: "Tell the hub that a game server is reachable",
	Long: `Tell the hub that a game server you own is reachable at addr.

With --interval the signal is repeated until interrupted, for example
--interval 30s or --interval PT30S.`,
	Args: cobra.ExactArgs(2),
	RunE: runKeepAlive,
}

func runKeepAlive(cmd *cobra.Command, args []string) error {

	serverID, err := parseID("server id", args[0])
	if err != nil {
		return err
	}
	serverAddr := args[1]

	var interval time.Duration
	if raw, _ := cmd.Flags().GetString("interval"); len(raw) > 0 {
		interval, err = common.ValidateInterval(raw, minKeepAliveInterval)
		if err != nil {
			return fmt.Errorf("invalid interval: %w", err)
		}
	}

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client, err := connectHub(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if interval == 0 {
		if err := client.KeepAlive(ctx, serverID, serverAddr); err != nil {
			return fmt.Errorf("keep-alive failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Server %d is listed at %s", serverID, serverAddr)))
		return nil
	}

	beat, err := heartbeat.New(client, serverID, serverAddr, interval)
	if err != nil {
		return err
	}

	if err := beat.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf(
		"Signalling server %d at %s every %s, press Ctrl+C to stop",
		serverID, serverAddr, common.FormatDurationRemaining(interval))))

	<-ctx.Done()
	beat.Stop()

	stats := beat.Stats()
	logrus.WithFields(logrus.Fields{
		"beats":    stats.Beats,
		"failures": stats.Failures,
	}).Debugln("Heartbeat stopped")

	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Stopped after %d beats (%d failed)", stats.Beats, stats.Failures)))

	return nil
}

func init() {
	keepAliveCmd.Flags().String("interval", "", "Repeat the signal at this interval until interrupted")

	rootCmd.AddCommand(keepAliveCmd)
}
