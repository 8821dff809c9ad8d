// Package cli wires the deepwork subcommands to the block lifecycle
// controller and the block page server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/config"
)

var (
	cfg *config.AppConfig

	rootCmd = &cobra.Command{
		Use:   "deepwork",
		Short: "Time-boxed website blocker that cannot be reversed before the deadline",
		Long: `deepwork blocks distracting websites for a fixed duration using
multiple OS layers: a locked hosts file region, a scheduled automatic
release, and a loopback block page. Once active, the block cannot be
undone until the timer expires.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
				return fmt.Errorf("logging configuration error: %w", err)
			}
			return nil
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
