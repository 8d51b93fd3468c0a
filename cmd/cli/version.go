package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// No configuration is needed to print the version
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		version, gitCommit, ok := common.GetModuleBuildInfo()

		if !ok {
			fmt.Fprintln(out, "Failed to get version information")
			return
		}

		fmt.Fprintf(out, "hubctl %s", version)
		if gitCommit != "unknown" && len(gitCommit) > 0 {
			if len(gitCommit) > 8 {
				fmt.Fprintf(out, " (git: %s)", gitCommit[:8])
			} else {
				fmt.Fprintf(out, " (git: %s)", gitCommit)
			}
		}
		fmt.Fprintln(out)
	},
}

func init() {

	rootCmd.AddCommand(versionCmd)
}
