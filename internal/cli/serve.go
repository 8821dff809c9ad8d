package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
	"github.com/pravsels/deepwork/internal/block/repos/certs"
	"github.com/pravsels/deepwork/internal/block/services/blockpage"
)

var servePageFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the loopback block page server (started as a service by block)",
	Long: `Serve the block page on the loopback web and secure-web ports until
stopped. The block command launches this as a detached service; it keeps
answering after the launching process exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.GetLogger()

		pageFile := servePageFile
		if pageFile == "" {
			pageFile = cfg.PageFile
		}

		// missing openssl only costs the HTTPS listener
		run := execer.New(cfg.CommandTimeout(), logger)
		pair, err := certs.New(cfg.CertDir, run, logger).Ensure(cmd.Context())
		if err != nil {
			logger.Warn(map[string]any{"error": err.Error()}, "certificate unavailable, serving HTTP only")
			pair = certs.Pair{}
		}

		server := blockpage.New(blockpage.Options{
			HTTPAddr:  fmt.Sprintf("127.0.0.1:%d", cfg.HTTPPort),
			HTTPSAddr: fmt.Sprintf("127.0.0.1:%d", cfg.HTTPSPort),
			Page:      blockpage.LoadPage(pageFile, logger),
			Certs:     pair,
			Logger:    logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info(nil, "starting block page server")
		return server.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePageFile, "page", "", "custom block page HTML file")
	rootCmd.AddCommand(serveCmd)
}
