package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unblockCmd = &cobra.Command{
	Use:   "unblock",
	Short: "Remove all blocking layers",
	Long: `Reverse every blocking layer: hosts file region, immutable flag,
leftover firewall rules, the block page service, and the unlock-time
file. Safe to run at any time; the scheduled release invokes this
automatically when the timer expires.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, cleanup, err := buildController(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := ctl.Unblock(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Block removed. Sites are accessible again.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unblockCmd)
}
