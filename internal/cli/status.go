package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a block is active and when it releases",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, cleanup, err := buildController(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		s, err := ctl.Status(cmd.Context())
		if err != nil {
			return err
		}

		if !s.Active {
			fmt.Println("No active block.")
			return nil
		}

		fmt.Printf("Focus mode active: %d domains blocked\n", len(s.Domains))
		if s.UnlockKnown {
			now := time.Now()
			fmt.Printf("  Unlocks at: %s (%s remaining)\n",
				s.UnlockAt.Format("2006-01-02 15:04"),
				s.Remaining(now).Round(time.Second))
		} else {
			fmt.Println("  Unlock time unknown")
		}
		if s.Locked {
			fmt.Println("  Hosts file is locked (immutable)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
