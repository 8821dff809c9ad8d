package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/domain"
)

var (
	blockFile   string
	blockTime   string
	blockNoPage bool
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Activate the website block for a fixed duration",
	Long: `Block every domain in the distraction list until the timer expires.
The hosts file is locked with the immutable attribute, and an automatic
release is scheduled; until it fires, the block cannot be undone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// validate everything before mutating anything
		duration, err := domain.ParseDuration(blockTime)
		if err != nil {
			return err
		}

		domains, err := loadDomains(blockFile, log.GetLogger())
		if err != nil {
			return err
		}
		if len(domains) == 0 {
			return fmt.Errorf("no domains found in %s", blockFile)
		}

		ctl, cleanup, err := buildController(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := ctl.Block(cmd.Context(), domains, duration, !blockNoPage); err != nil {
			return err
		}

		fmt.Printf("Block active for %s. No escape until the timer expires.\n", duration)
		return nil
	},
}

func init() {
	blockCmd.Flags().StringVarP(&blockFile, "file", "f", "distractions.txt", "file containing domains to block")
	blockCmd.Flags().StringVarP(&blockTime, "time", "t", "25m", "block duration: 30s, 25m, 2h, 1d")
	blockCmd.Flags().BoolVar(&blockNoPage, "no-block-page", false, "disable the localhost block page")
	rootCmd.AddCommand(blockCmd)
}
